// Package docs registers the OpenAPI document of the HTTP API with swag.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "summary": "Welcome message",
                "responses": {
                    "200": {"description": "Hello World", "schema": {"type": "string"}}
                }
            }
        },
        "/api/recommend/{strategy}": {
            "get": {
                "description": "Ranks movies similar to imdb_id. Returns IMDb IDs best first, or scored items with with_scores=true.",
                "produces": ["application/json"],
                "summary": "Recommend similar movies",
                "parameters": [
                    {
                        "type": "string",
                        "enum": ["genre", "tag", "collaborative", "genome-scores", "hybrid"],
                        "description": "Scoring strategy",
                        "name": "strategy",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "IMDb ID, e.g. tt0114709",
                        "name": "imdb_id",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "default": 5,
                        "description": "Number of results",
                        "name": "top_n",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Include scores and internal IDs",
                        "name": "with_scores",
                        "in": "query"
                    },
                    {
                        "type": "number",
                        "description": "Fraction of ratings sampled (collaborative, hybrid)",
                        "name": "sample_frac",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/chi.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/chi.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/chi.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/chi.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chi.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/chi.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "chi.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "chi.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "chi.ScoredItem": {
            "type": "object",
            "properties": {
                "imdb_id": {"type": "string"},
                "movie_id": {"type": "integer"},
                "score": {"type": "number"}
            }
        },
        "chi.ScoredResponse": {
            "type": "object",
            "properties": {
                "imdb_id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/chi.ScoredItem"}},
                "strategy": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "movierec API",
	Description:      "Content-based, collaborative and hybrid movie recommendations over MovieLens.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
