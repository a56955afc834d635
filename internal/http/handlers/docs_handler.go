package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Views returns the template engine for the HTML pages served by this package.
func Views() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

type DocsHandler struct {
	Routes []Route
}

var reParam = regexp.MustCompile(`:([A-Za-z]+)`)

func openAPIPath(p string) string { return reParam.ReplaceAllString(p, "{$1}") }

// Spec builds an OpenAPI 3 document from the route table.
func (h *DocsHandler) Spec(c *fiber.Ctx) error {
	paths := map[string]map[string]any{}
	for _, rt := range h.Routes {
		p := openAPIPath(rt.Path)
		if paths[p] == nil {
			paths[p] = map[string]any{}
		}
		op := map[string]any{
			"summary": rt.Summary,
			"tags":    []string{strings.Split(strings.TrimPrefix(rt.Path, "/"), "/")[0]},
			"responses": map[string]any{
				strconv.Itoa(rt.Success): map[string]any{"description": http.StatusText(rt.Success)},
				"400":                    map[string]any{"description": "Validation failed"},
			},
		}
		if params := reParam.FindAllStringSubmatch(rt.Path, -1); len(params) > 0 {
			var ps []map[string]any
			for _, m := range params {
				ps = append(ps, map[string]any{
					"name": m[1], "in": "path", "required": true,
					"schema": map[string]any{"type": "integer"},
				})
			}
			op["parameters"] = ps
		}
		if rt.Access != Public {
			op["security"] = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}
			op["responses"].(map[string]any)["401"] = map[string]any{"description": "Authentication required"}
		}
		if rt.Access == AdminOnly {
			op["responses"].(map[string]any)["403"] = map[string]any{"description": "Admin only"}
		}
		paths[p][strings.ToLower(rt.Method)] = op
	}
	return c.JSON(fiber.Map{
		"openapi": "3.0.3",
		"info":    fiber.Map{"title": "shopfront API", "version": "1.0.0"},
		"paths":   paths,
		"components": fiber.Map{
			"securitySchemes": fiber.Map{
				"bearerAuth": fiber.Map{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
				"cookieAuth": fiber.Map{"type": "apiKey", "in": "cookie", "name": TokenCookie},
			},
		},
	})
}

// Page renders a browsable route listing.
func (h *DocsHandler) Page(c *fiber.Ctx) error {
	return c.Render("docs", fiber.Map{"Title": "shopfront API", "Routes": h.Routes})
}
