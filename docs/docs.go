// Package docs registers the OpenAPI description served under /swagger.
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
        "/api/submissions/{submissionId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "Get a submission",
                "parameters": [
                    {"type": "string", "description": "Submission ID", "name": "submissionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/submission.Submission"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/submissions/{submissionId}/workflow": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["workflow"],
                "summary": "Apply a workflow transition",
                "parameters": [
                    {"type": "string", "description": "Submission ID", "name": "submissionId", "in": "path", "required": true},
                    {"description": "Transition", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/workflow.TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/submissions/{submissionId}/activity/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["activity"],
                "summary": "List workflow activity for a submission",
                "parameters": [
                    {"type": "string", "description": "Submission ID", "name": "submissionId", "in": "path", "required": true},
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/api/submissions/{submissionId}/activity/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["activity"],
                "summary": "Export workflow activity as XLSX",
                "parameters": [
                    {"type": "string", "description": "Submission ID", "name": "submissionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/api/workflow/actions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["workflow"],
                "summary": "List workflow actions",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/workflow.Decision"}}}
                }
            }
        }
    },
    "definitions": {
        "submission.Submission": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "journal_id": {"type": "string"},
                "current_stage": {"type": "string", "enum": ["submission", "review", "copyediting", "production"]},
                "status": {"type": "string", "enum": ["queued", "in_review", "accepted", "declined", "scheduled", "published"]},
                "is_archived": {"type": "boolean"},
                "version": {"type": "integer"},
                "scheduled_publish_at": {"type": "string"},
                "submitted_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "workflow.TransitionRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "targetStage": {"type": "string"},
                "status": {"type": "string"},
                "note": {"type": "string"},
                "publishAt": {"type": "string"},
                "expectedVersion": {"type": "integer"}
            }
        },
        "workflow.Decision": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "next_stage": {"type": "string"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "OJS Workflow API",
	Description:      "Editorial workflow transitions for journal submissions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
