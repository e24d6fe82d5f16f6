// Package docs registers the Swagger spec served at /swagger/*any. Keep it in
// step with the handler annotations (swag init -g cmd/server/main.go).
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a clinician",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/titration/decide": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stateless protocol evaluation. Returns the rate adjustment as [[delay_minutes, rate], ...], the recheck interval, the coded order and any advisories.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["titration"],
                "summary": "Compute one titration step",
                "parameters": [{"description": "Titration input", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DecideRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Recommendation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/protocol/notes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["titration"],
                "summary": "Protocol notes",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/api/v1/patients/{id}/infusion/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Takes the first BG, returns the initial bolus and rate.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["infusion"],
                "summary": "Start an insulin infusion",
                "parameters": [
                    {"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true},
                    {"description": "First BG reading", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReadingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Decision"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/patients/{id}/readings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["infusion"],
                "summary": "List BG readings",
                "parameters": [
                    {"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Max readings, newest first", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "count, readings", "schema": {"type": "object"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Applies one protocol step to a running infusion.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["infusion"],
                "summary": "Record a BG reading",
                "parameters": [
                    {"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true},
                    {"description": "BG reading", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReadingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Decision"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/patients/{id}/infusion/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["infusion"],
                "summary": "Stop an insulin infusion",
                "parameters": [{"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "status, state", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/patients/{id}/infusion/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["infusion"],
                "summary": "Get infusion state",
                "parameters": [{"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InfusionState"}}}
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter logs by patient and date. A date-only 'to' is treated as end of day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List infusion logs",
                "parameters": [
                    {"type": "string", "description": "Patient id", "name": "patient", "in": "query"},
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["INITIAL_DOSE", "RATE_CHANGE", "RATE_HOLD", "INSULIN_OFF", "RAMP_SCHEDULED", "RAMP_APPLIED", "INFUSION_STOPPED"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/ws/patients/{id}": {
            "get": {
                "description": "WebSocket. Sends {\"type\":\"state\",\"data\":InfusionState} every interval.",
                "tags": ["infusion"],
                "summary": "Stream infusion state",
                "parameters": [
                    {"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Go duration, e.g. 2s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Interval in milliseconds", "name": "interval_ms", "in": "query"},
                    {"type": "string", "description": "JWT when the Authorization header cannot be set", "name": "access_token", "in": "query"}
                ],
                "responses": {}
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "correct-horse"},
                "username": {"type": "string", "example": "nurse.kim"}
            }
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.DecideRequest": {
            "type": "object",
            "properties": {
                "current_bg": {"type": "integer", "example": 245},
                "current_rate": {"type": "number", "example": 3},
                "hourly_bg_change": {"type": "integer", "example": -20},
                "consecutive_in_target_count": {"type": "integer", "example": 0}
            }
        },
        "handlers.ReadingRequest": {
            "type": "object",
            "required": ["bg"],
            "properties": {
                "bg": {"type": "integer", "example": 245},
                "at": {"type": "string", "example": "2025-03-01T06:00:00Z"}
            }
        },
        "service.Recommendation": {
            "type": "object",
            "properties": {
                "rate_adjustment": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "at_target": {"type": "boolean"},
                "next_check_minutes": {"type": "integer"},
                "dose": {"type": "number"},
                "order": {"type": "object"},
                "advisories": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.Decision": {
            "type": "object",
            "properties": {
                "rate_adjustment": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "at_target": {"type": "boolean"},
                "next_check_minutes": {"type": "integer"},
                "dose": {"type": "number"},
                "order": {"type": "object"},
                "advisories": {"type": "array", "items": {"type": "string"}},
                "hourly_bg_change": {"type": "integer"},
                "state": {"$ref": "#/definitions/models.InfusionState"}
            }
        },
        "models.InfusionState": {
            "type": "object",
            "properties": {
                "patient_id": {"type": "string"},
                "is_running": {"type": "boolean"},
                "rate": {"type": "number"},
                "pending_rate": {"type": "number"},
                "ramp_at": {"type": "string"},
                "last_bg": {"type": "integer"},
                "last_reading_at": {"type": "string"},
                "in_target_streak": {"type": "integer"},
                "at_target": {"type": "boolean"},
                "next_check_at": {"type": "string"},
                "started_at": {"type": "string"},
                "updated_at": {"type": "string"}
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Insulin Drip API",
	Description:      "Insulin infusion titration for adult ICU patients.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
