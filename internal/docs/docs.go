// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the godoc annotations on the handlers.
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
        "/books": {
            "post": {
                "tags": ["books"],
                "summary": "Add a book (available on creation)",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/catalog.CreateBookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/catalog.CreatedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/web.ErrorResponse"}}
                }
            }
        },
        "/books/available": {
            "get": {
                "tags": ["books"],
                "summary": "Books currently on the shelf, in insertion order",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.BookSummaryResponse"}}}
                }
            }
        },
        "/books/{book_id}": {
            "get": {
                "tags": ["books"],
                "summary": "Get a book",
                "parameters": [
                    {"name": "book_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.BookResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/web.ErrorResponse"}}
                }
            }
        },
        "/readers": {
            "get": {
                "tags": ["readers"],
                "summary": "Look readers up by exact surname",
                "parameters": [
                    {"name": "surname", "in": "query", "required": true, "type": "string"},
                    {"name": "first", "in": "query", "type": "boolean", "description": "only the first registered match"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.ReaderResponse"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/web.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["readers"],
                "summary": "Register a reader",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/catalog.CreateReaderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/catalog.CreatedResponse"}}
                }
            }
        },
        "/readers/{reader_id}": {
            "get": {
                "tags": ["readers"],
                "summary": "Get a reader",
                "parameters": [
                    {"name": "reader_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.ReaderResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/web.ErrorResponse"}}
                }
            }
        },
        "/readers/{reader_id}/borrowings": {
            "get": {
                "tags": ["circulation"],
                "summary": "Borrowing history of the reader",
                "parameters": [
                    {"name": "reader_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "open", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/circulation.BorrowingResponse"}}}
                }
            },
            "post": {
                "tags": ["circulation"],
                "summary": "Lend a book to the reader",
                "parameters": [
                    {"name": "reader_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/circulation.BookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/circulation.BorrowingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/web.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/web.ErrorResponse"}}
                }
            }
        },
        "/readers/{reader_id}/returns": {
            "post": {
                "tags": ["circulation"],
                "summary": "Return a book borrowed by the reader",
                "parameters": [
                    {"name": "reader_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/circulation.BookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/circulation.BorrowingResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/web.ErrorResponse"}}
                }
            }
        },
        "/consistency": {
            "get": {
                "tags": ["circulation"],
                "summary": "Books whose availability flag disagrees with open borrowings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/circulation.MismatchResponse"}}}
                }
            }
        }
    },
    "definitions": {
        "catalog.CreateBookRequest": {
            "type": "object",
            "required": ["title", "author"],
            "properties": {"title": {"type": "string"}, "author": {"type": "string"}}
        },
        "catalog.CreateReaderRequest": {
            "type": "object",
            "required": ["surname", "given_name"],
            "properties": {"surname": {"type": "string"}, "given_name": {"type": "string"}, "patronymic": {"type": "string"}}
        },
        "catalog.CreatedResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}}
        },
        "catalog.BookResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "title": {"type": "string"}, "author": {"type": "string"}, "available": {"type": "boolean"}}
        },
        "catalog.BookSummaryResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "title": {"type": "string"}, "author": {"type": "string"}}
        },
        "catalog.ReaderResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "surname": {"type": "string"},
                "given_name": {"type": "string"},
                "patronymic": {"type": "string"},
                "full_name": {"type": "string"}
            }
        },
        "circulation.BookRequest": {
            "type": "object",
            "required": ["book_id"],
            "properties": {"book_id": {"type": "integer"}}
        },
        "circulation.BorrowingResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "reader_id": {"type": "integer"},
                "book_id": {"type": "integer"},
                "borrowed_at": {"type": "string", "format": "date-time"},
                "returned_at": {"type": "string", "format": "date-time"},
                "open": {"type": "boolean"}
            }
        },
        "circulation.MismatchResponse": {
            "type": "object",
            "properties": {"book_id": {"type": "integer"}, "available": {"type": "boolean"}, "open_borrowings": {"type": "integer"}}
        },
        "web.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {"code": {"type": "string"}, "reason": {"type": "string"}, "message": {"type": "string"}}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "library-desk API",
	Description:      "Books, readers and the borrow / return desk.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
