package handler

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/index.html
var indexHTML []byte

//go:embed static/login.html
var loginHTML []byte

//go:embed static/openapi.yaml
var openAPISpec []byte

// IndexPage serves the main view: upload form, signature composer and the
// document list.
func IndexPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("html")
		return c.Send(indexHTML)
	}
}

// LoginPage serves the sign-in view.
func LoginPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("html")
		return c.Send(loginHTML)
	}
}

// OpenAPISpec serves the embedded OpenAPI definition, independent of the
// process working directory.
func OpenAPISpec() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(openAPISpec)
	}
}

// DocsPage serves Swagger UI pointed at the static OpenAPI definition.
func DocsPage() fiber.Handler {
	const page = `<!DOCTYPE html>
<html>
<head>
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "/openapi.yaml", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`
	return func(c *fiber.Ctx) error {
		c.Type("html")
		return c.SendString(page)
	}
}
