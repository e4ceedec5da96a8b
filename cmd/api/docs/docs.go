// Package docs holds the swagger document served at /swagger. Keep it in the shape
// swag init emits (see internal/adapter/utils/docs_info.go) so a regeneration is a clean diff.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"license": {
			"name": "Apache 2.0",
			"url": "http://www.apache.org/licenses/LICENSE-2.0.html"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/archives": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Extracts the archive into the caller's session and lists its CSV files. An archive without CSV files is accepted with a warning.",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Archives"
				],
				"summary": "Upload a zip of CSV files",
				"parameters": [
					{
						"type": "string",
						"description": "Session id; a new one is issued when absent",
						"name": "X-Session-Id",
						"in": "header",
						"required": false
					},
					{
						"type": "file",
						"description": "The .zip archive",
						"name": "archive",
						"in": "formData",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.SessionResponse"
						}
					},
					"400": {
						"description": "Not a zip, unsafe entry paths or too large",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"503": {
						"description": "Session store unavailable",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/interactions": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Most recent logged question/answer cycles, newest first.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Interactions"
				],
				"summary": "Recent interactions",
				"parameters": [
					{
						"type": "integer",
						"description": "Max records (default and max 100)",
						"name": "limit",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.InteractionListResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/preview": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Questions"
				],
				"summary": "First rows of the selected CSV",
				"parameters": [
					{
						"type": "string",
						"description": "Session id",
						"name": "X-Session-Id",
						"in": "header",
						"required": true
					},
					{
						"type": "integer",
						"description": "Number of rows (default 5, max 100)",
						"name": "rows",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.PreviewResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/questions": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Runs the reasoning agent on the selected file and logs the interaction. A failed log write still returns the answer with log_error set.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Questions"
				],
				"summary": "Ask a question about the selected CSV",
				"parameters": [
					{
						"type": "string",
						"description": "Session id",
						"name": "X-Session-Id",
						"in": "header",
						"required": true
					},
					{
						"description": "Free-text question",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.QuestionRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.AnswerResponse"
						}
					},
					"400": {
						"description": "Empty question or no file selected",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"500": {
						"description": "The agent failed",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/selection": {
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Sessions"
				],
				"summary": "Select the CSV file to analyse",
				"parameters": [
					{
						"type": "string",
						"description": "Session id",
						"name": "X-Session-Id",
						"in": "header",
						"required": true
					},
					{
						"description": "File name as listed in available_files",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.SelectionRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.SessionResponse"
						}
					},
					"400": {
						"description": "Unknown file or invalid body",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/session": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Sessions"
				],
				"summary": "Current session state",
				"parameters": [
					{
						"type": "string",
						"description": "Session id; a new one is issued when absent",
						"name": "X-Session-Id",
						"in": "header",
						"required": false
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.SessionResponse"
						}
					}
				}
			}
		},
		"/healthz": {
			"get": {
				"tags": [
					"Infra"
				],
				"summary": "Liveness probe",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	},
	"definitions": {
		"api.AnswerResponse": {
			"type": "object",
			"properties": {
				"answer": {
					"type": "string",
					"example": "42"
				},
				"answer_html": {
					"type": "string",
					"example": "<p>42</p>"
				},
				"log_error": {
					"type": "string"
				},
				"log_id": {
					"type": "string",
					"example": "Qm9uZGFnZQ"
				},
				"question": {
					"type": "string",
					"example": "total rows?"
				},
				"source_file": {
					"type": "string",
					"example": "sales.csv"
				}
			}
		},
		"api.ErrorKind": {
			"type": "string",
			"enum": [
				"validation",
				"processing",
				"connection"
			],
			"x-enum-varnames": [
				"ErrorKindValidation",
				"ErrorKindProcessing",
				"ErrorKindConnection"
			]
		},
		"api.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"$ref": "#/definitions/api.OutgoingError"
				},
				"session_id": {
					"type": "string",
					"example": "7f1c0a4e-9a55-4c1e-b3e5-2a0a5f0f3c11"
				}
			}
		},
		"api.InteractionListResponse": {
			"type": "object",
			"properties": {
				"interactions": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/api.InteractionResponse"
					}
				}
			}
		},
		"api.InteractionResponse": {
			"type": "object",
			"properties": {
				"answer": {
					"type": "string",
					"example": "42"
				},
				"created_at": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"question": {
					"type": "string",
					"example": "total rows?"
				},
				"source_file": {
					"type": "string",
					"example": "sales.csv"
				}
			}
		},
		"api.OutgoingError": {
			"type": "object",
			"properties": {
				"can_retry": {
					"type": "boolean",
					"example": false
				},
				"code": {
					"type": "integer",
					"example": 400
				},
				"kind": {
					"allOf": [
						{
							"$ref": "#/definitions/api.ErrorKind"
						}
					],
					"example": "validation"
				},
				"message": {
					"type": "string",
					"example": "Please type a question."
				}
			}
		},
		"api.PreviewResponse": {
			"type": "object",
			"properties": {
				"columns": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"file": {
					"type": "string",
					"example": "sales.csv"
				},
				"rows": {
					"type": "array",
					"items": {
						"type": "array",
						"items": {
							"type": "string"
						}
					}
				},
				"truncated": {
					"type": "boolean"
				}
			}
		},
		"api.QuestionRequest": {
			"type": "object",
			"required": [
				"question"
			],
			"properties": {
				"question": {
					"type": "string",
					"maxLength": 8000
				}
			}
		},
		"api.SelectionRequest": {
			"type": "object",
			"required": [
				"file"
			],
			"properties": {
				"file": {
					"type": "string",
					"maxLength": 1024
				}
			}
		},
		"api.SessionResponse": {
			"type": "object",
			"properties": {
				"archive_name": {
					"type": "string",
					"example": "sales_2024.zip"
				},
				"available_files": {
					"type": "array",
					"items": {
						"type": "string"
					},
					"example": [
						"sales.csv",
						"costs.csv"
					]
				},
				"selected_file": {
					"type": "string",
					"example": "sales.csv"
				},
				"session_id": {
					"type": "string",
					"example": "7f1c0a4e-9a55-4c1e-b3e5-2a0a5f0f3c11"
				},
				"updated_at": {
					"type": "string"
				},
				"warning": {
					"type": "string",
					"example": "No .csv file found in the uploaded .zip."
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "CSV Agent API",
	Description:      "Upload a zip of CSV files, pick one and ask questions about it in natural language.\nEvery answered question is logged to the interaction store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
