// Package docs registers the generated OpenAPI document with the swag
// runtime so the Swagger UI route can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate": {
            "post": {
                "description": "Runs the generation pipeline: quota check, prompt composition, model call, parsing, and policy guard.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "Generate a guide or blog post from a topic",
                "operationId": "generateContent",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad request or policy violation"},
                    "409": {"description": "Duplicate content"},
                    "422": {"description": "Generated content failed validation"},
                    "429": {"description": "Quota exceeded"},
                    "502": {"description": "Generation backend failed"},
                    "503": {"description": "Generation backend unavailable"},
                    "504": {"description": "Generation backend timed out"}
                }
            }
        },
        "/guides": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Guides"],
                "summary": "List guides (paginated)",
                "operationId": "listGuides",
                "responses": {
                    "200": {"description": "OK"},
                    "304": {"description": "Not Modified"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Guides"],
                "summary": "Author a guide manually",
                "operationId": "createGuide",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad request"},
                    "409": {"description": "Duplicate content"}
                }
            }
        },
        "/guides/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Guides"],
                "summary": "Search published guides by title",
                "operationId": "searchGuides",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Empty query"}
                }
            }
        },
        "/guides/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Guides"],
                "summary": "Get a guide by slug",
                "operationId": "getGuide",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/blogs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Blogs"],
                "summary": "List blog posts (paginated)",
                "operationId": "listBlogs",
                "responses": {
                    "200": {"description": "OK"},
                    "304": {"description": "Not Modified"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Blogs"],
                "summary": "Author a blog post manually",
                "operationId": "createBlog",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad request"},
                    "409": {"description": "Duplicate content"}
                }
            }
        },
        "/blogs/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Blogs"],
                "summary": "Search published blog posts by title",
                "operationId": "searchBlogs",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Empty query"}
                }
            }
        },
        "/blogs/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Blogs"],
                "summary": "Get a blog post by slug",
                "operationId": "getBlog",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Categories"],
                "summary": "List categories with content counts",
                "operationId": "listCategories",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/me/subscription": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Get the requester's subscription",
                "operationId": "getSubscription",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Change the requester's subscription tier",
                "operationId": "updateSubscription",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unknown tier"}
                }
            }
        },
        "/me/quota": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Get the requester's monthly quota standing",
                "operationId": "getQuota",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/bot/run": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Run one automated guide generation cycle",
                "operationId": "runBot",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Requester is not an admin"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VerbShift Guides API",
	Description:      "AI-assisted guide and blog generation service with quota-gated publishing.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
