// Package docs registers the OpenAPI description of the HTTP API with swag.
// The template follows the handler annotations; keep both in sync.
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
        "/data": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "List collection names",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/data/{collection}": {
            "get": {
                "description": "Lists a collection through the query pipeline, or reads one record.",
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Read records",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header"},
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Filter, e.g. year>=2000 AND genre IN (\"drama\")", "name": "where", "in": "query"},
                    {"type": "string", "description": "Comma-separated sort keys, each optionally followed by desc", "name": "sortBy", "in": "query"},
                    {"type": "integer", "description": "Records to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Maximum records to return", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Comma-separated fields forming the uniqueness key", "name": "distinct", "in": "query"},
                    {"type": "string", "description": "Return the number of matches instead of records", "name": "count", "in": "query"},
                    {"type": "string", "description": "Comma-separated fields to keep", "name": "select", "in": "query"},
                    {"type": "string", "description": "Relations, e.g. author=_ownerId:users", "name": "load", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "post": {
                "description": "The record is owned by the caller; _ownerId in the body is ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Create a record",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"description": "Record fields", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/data/{collection}/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Replace a record",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true},
                    {"description": "New record fields", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Merge fields into a record",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to merge", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Delete a record",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Deletion"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/users/register": {
            "post": {
                "description": "Stores every body field except password and returns the user with an accessToken.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Identity field, password and optional profile fields", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Login",
                "parameters": [
                    {"description": "Identity field and password", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/users/logout": {
            "get": {
                "tags": ["users"],
                "summary": "Logout",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "parameters": [
                    {"type": "string", "description": "Access token", "name": "X-Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/jsonstore/{collection}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["jsonstore"],
                "summary": "Read a JSON store value",
                "parameters": [
                    {"type": "string", "description": "Top-level key", "name": "collection", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "204": {"description": "No Content"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jsonstore"],
                "summary": "Add an entry under a path",
                "parameters": [
                    {"type": "string", "description": "Top-level key", "name": "collection", "in": "path", "required": true},
                    {"description": "Entry", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jsonstore"],
                "summary": "Replace an existing value",
                "parameters": [
                    {"type": "string", "description": "Top-level key", "name": "collection", "in": "path", "required": true},
                    {"description": "New value", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "204": {"description": "No Content"}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jsonstore"],
                "summary": "Merge fields into an object",
                "parameters": [
                    {"type": "string", "description": "Top-level key", "name": "collection", "in": "path", "required": true},
                    {"description": "Fields to merge", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["jsonstore"],
                "summary": "Remove a value",
                "parameters": [
                    {"type": "string", "description": "Top-level key", "name": "collection", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {}}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/util": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["util"],
                "summary": "Toggle util switches",
                "parameters": [
                    {"description": "Switch values", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.toggleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/util/{service}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["util"],
                "summary": "Read a util switch",
                "parameters": [
                    {"type": "string", "description": "Switch name (throttle)", "name": "service", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "boolean"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "domain.Deletion": {
            "type": "object",
            "properties": {
                "_deletedOn": {"type": "integer"}
            }
        },
        "handler.toggleRequest": {
            "type": "object",
            "required": ["throttle"],
            "properties": {
                "throttle": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Practice Server API",
	Description:      "REST back-end for front-end practice: users, rule-guarded data collections and util switches.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
