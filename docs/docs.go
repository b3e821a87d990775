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
		"/notes": {
			"get": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "List notes on the board in display order",
				"parameters": [
					{
						"type": "string",
						"description": "ETag of a previous response",
						"name": "If-None-Match",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.ListNotesResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Create a new note at the head of the board",
				"description": "An empty note (no title, no body, no image) is not stored and yields 204.",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Create note request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/notes.CreateNoteRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/notes.NoteResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/notes/reorder": {
			"post": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Move the note at one position to another",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Reorder request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/notes.ReorderRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.ListNotesResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/notes/hover": {
			"post": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Feed a drag hover; moves the dragged note once the pointer crosses 30% of the hovered cell",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Hover request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/notes.HoverRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.HoverResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/notes/{id}": {
			"patch": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Edit a note in place",
				"description": "Omitted fields keep their value. An edit that leaves the note empty moves it to the trash.",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Update note request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/notes.UpdateNoteRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.EditNoteResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Move a note to the trash",
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.NoteResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/notes/{id}/duplicate": {
			"post": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Duplicate a note to the head of the board",
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/notes.NoteResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/notes/{id}/color": {
			"put": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "Set a note's palette color",
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Palette name or hex value",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/notes.ColorRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.NoteResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/trash": {
			"get": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"trash"
				],
				"summary": "List trashed notes with their expiry countdown",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.ListTrashResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"trash"
				],
				"summary": "Permanently delete every trashed note",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.CountResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/trash/{id}/restore": {
			"post": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"trash"
				],
				"summary": "Restore a trashed note to the head of the board",
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.NoteResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/trash/{id}": {
			"delete": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"trash"
				],
				"summary": "Permanently delete a trashed note",
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/editor": {
			"get": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"editor"
				],
				"summary": "Get the note currently open in the editor",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.EditorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"editor"
				],
				"summary": "Close the editor",
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/editor/{id}": {
			"put": {
				"security": [
					{
						"Bearer": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"editor"
				],
				"summary": "Open an active note in the editor",
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.EditorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/httperr.E"
						}
					}
				}
			}
		},
		"/palette": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"notes"
				],
				"summary": "List palette colors",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/notes.PaletteResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"httperr.E": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string",
					"example": "Bad Request"
				}
			}
		},
		"notes.Color": {
			"type": "string",
			"enum": [
				"none",
				"red",
				"orange",
				"yellow",
				"green",
				"teal",
				"blue",
				"purple",
				"pink",
				"gray"
			],
			"x-enum-varnames": [
				"ColorNone",
				"ColorRed",
				"ColorOrange",
				"ColorYellow",
				"ColorGreen",
				"ColorTeal",
				"ColorBlue",
				"ColorPurple",
				"ColorPink",
				"ColorGray"
			]
		},
		"notes.Note": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"example": "01JZ3V8Q6M0KX9T4N2B7C5D8EF"
				},
				"title": {
					"type": "string",
					"example": "Groceries"
				},
				"body": {
					"type": "string",
					"example": "milk, eggs, bread"
				},
				"image": {
					"type": "string",
					"example": "data:image/png;base64,iVBORw0KGgo="
				},
				"color": {
					"allOf": [
						{
							"$ref": "#/definitions/notes.Color"
						}
					],
					"example": "yellow"
				},
				"timestamp": {
					"type": "string",
					"example": "2025-06-01T23:00:26.005703677Z"
				}
			}
		},
		"notes.Swatch": {
			"type": "object",
			"properties": {
				"name": {
					"allOf": [
						{
							"$ref": "#/definitions/notes.Color"
						}
					],
					"example": "yellow"
				},
				"hex": {
					"type": "string",
					"example": "#fff475"
				}
			}
		},
		"notes.Rect": {
			"type": "object",
			"properties": {
				"top": {
					"type": "number",
					"example": 120
				},
				"bottom": {
					"type": "number",
					"example": 220
				}
			}
		},
		"notes.ReorderInstruction": {
			"type": "object",
			"properties": {
				"from": {
					"type": "integer",
					"example": 0
				},
				"to": {
					"type": "integer",
					"example": 2
				}
			}
		},
		"notes.CreateNoteRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string",
					"example": "Groceries"
				},
				"body": {
					"type": "string",
					"example": "milk, eggs, bread"
				},
				"image": {
					"type": "string"
				},
				"color": {
					"type": "string",
					"example": "yellow"
				}
			}
		},
		"notes.UpdateNoteRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string",
					"example": "Groceries for Sunday"
				},
				"body": {
					"type": "string",
					"example": "milk, eggs"
				},
				"image": {
					"type": "string",
					"example": ""
				}
			}
		},
		"notes.ColorRequest": {
			"type": "object",
			"required": [
				"color"
			],
			"properties": {
				"color": {
					"type": "string",
					"example": "teal"
				}
			}
		},
		"notes.ReorderRequest": {
			"type": "object",
			"required": [
				"from",
				"to"
			],
			"properties": {
				"from": {
					"type": "integer",
					"minimum": 0,
					"example": 0
				},
				"to": {
					"type": "integer",
					"minimum": 0,
					"example": 2
				}
			}
		},
		"notes.HoverRequest": {
			"type": "object",
			"required": [
				"drag_index",
				"hover_index"
			],
			"properties": {
				"drag_index": {
					"type": "integer",
					"minimum": 0,
					"example": 0
				},
				"hover_index": {
					"type": "integer",
					"minimum": 0,
					"example": 1
				},
				"fraction": {
					"type": "number",
					"maximum": 1,
					"minimum": 0,
					"example": 0.45
				},
				"rect": {
					"$ref": "#/definitions/notes.Rect"
				},
				"y": {
					"type": "number",
					"example": 165
				}
			}
		},
		"notes.NoteResponse": {
			"type": "object",
			"properties": {
				"note": {
					"$ref": "#/definitions/notes.Note"
				}
			}
		},
		"notes.EditNoteResponse": {
			"type": "object",
			"properties": {
				"note": {
					"$ref": "#/definitions/notes.Note"
				},
				"trashed": {
					"type": "boolean",
					"example": false
				}
			}
		},
		"notes.ListNotesResponse": {
			"type": "object",
			"properties": {
				"notes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/notes.Note"
					}
				},
				"count": {
					"type": "integer",
					"example": 12
				}
			}
		},
		"notes.TrashedNote": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string",
					"example": "01JZ3V8Q6M0KX9T4N2B7C5D8EF"
				},
				"title": {
					"type": "string",
					"example": "Groceries"
				},
				"body": {
					"type": "string",
					"example": "milk, eggs, bread"
				},
				"image": {
					"type": "string",
					"example": "data:image/png;base64,iVBORw0KGgo="
				},
				"color": {
					"allOf": [
						{
							"$ref": "#/definitions/notes.Color"
						}
					],
					"example": "yellow"
				},
				"timestamp": {
					"type": "string",
					"example": "2025-06-01T23:00:26.005703677Z"
				},
				"days_remaining": {
					"type": "integer",
					"example": 14
				}
			}
		},
		"notes.ListTrashResponse": {
			"type": "object",
			"properties": {
				"notes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/notes.TrashedNote"
					}
				},
				"count": {
					"type": "integer",
					"example": 3
				}
			}
		},
		"notes.CountResponse": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer",
					"example": 3
				}
			}
		},
		"notes.HoverResponse": {
			"type": "object",
			"properties": {
				"moved": {
					"type": "boolean",
					"example": true
				},
				"move": {
					"$ref": "#/definitions/notes.ReorderInstruction"
				}
			}
		},
		"notes.EditorResponse": {
			"type": "object",
			"properties": {
				"note": {
					"$ref": "#/definitions/notes.Note"
				}
			}
		},
		"notes.PaletteResponse": {
			"type": "object",
			"properties": {
				"colors": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/notes.Swatch"
					}
				}
			}
		}
	},
	"securityDefinitions": {
		"Bearer": {
			"description": "Type \"Bearer\" followed by a space and JWT token. Only needed when the server runs with JWT_SECRET.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Note Board API",
	Description:      "Sticky-note board with a trash bin, drag reordering and live updates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
