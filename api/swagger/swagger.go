package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "DMU Dormitory Management API",
        "description": "Dormitory administration portal: students, blocks, rooms and automated placement",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and password management"},
        {"name": "Students", "description": "Student registry, CSV import and single placement"},
        {"name": "Blocks", "description": "Dormitory blocks"},
        {"name": "Rooms", "description": "Rooms and capacity"},
        {"name": "Placements", "description": "Roster, auto-assign pass and CSV export"},
        {"name": "Employees", "description": "Dormitory staff"},
        {"name": "ExitPapers", "description": "Student leave requests"},
        {"name": "Maintenance", "description": "Room defect reports"},
        {"name": "Dashboard", "description": "Occupancy overview and runtime stats"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Tokens refreshed"},
                    "401": {"description": "Refresh token invalid or revoked"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "unplaced", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Student list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "responses": {
                    "201": {"description": "Student created"},
                    "409": {"description": "Student code already exists"}
                }
            }
        },
        "/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Import report", "schema": {"$ref": "#/definitions/ImportReport"}},
                    "400": {"description": "Missing required columns or row limit exceeded"}
                }
            }
        },
        "/students/{id}/placement": {
            "post": {
                "tags": ["Students"],
                "summary": "Assign one student to a room",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "201": {"description": "Placement created", "schema": {"$ref": "#/definitions/AssignStudentResult"}},
                    "409": {"description": "Student already placed or room filled concurrently"},
                    "412": {"description": "No eligible block or room"}
                }
            }
        },
        "/blocks": {
            "get": {
                "tags": ["Blocks"],
                "summary": "List blocks with room aggregates",
                "responses": {
                    "200": {"description": "Block list"}
                }
            },
            "post": {
                "tags": ["Blocks"],
                "summary": "Register block",
                "responses": {
                    "201": {"description": "Block created"}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "blockId", "in": "query", "type": "string"},
                    {"name": "hasSpace", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Room list"}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Register room",
                "responses": {
                    "201": {"description": "Room created"},
                    "409": {"description": "Room number already exists in block"}
                }
            }
        },
        "/placements": {
            "get": {
                "tags": ["Placements"],
                "summary": "List active placements",
                "responses": {
                    "200": {"description": "Placement roster"}
                }
            },
            "post": {
                "tags": ["Placements"],
                "summary": "Run a bulk placement action",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlacementActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Assignment report", "schema": {"$ref": "#/definitions/AssignmentReport"}},
                    "400": {"description": "Unsupported action"}
                }
            },
            "delete": {
                "tags": ["Placements"],
                "summary": "Clear all active placements",
                "responses": {
                    "200": {"description": "Unassign report"}
                }
            }
        },
        "/placements/export": {
            "get": {
                "tags": ["Placements"],
                "summary": "Export the placement roster as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/exit-papers/{id}/decision": {
            "post": {
                "tags": ["ExitPapers"],
                "summary": "Approve or reject an exit paper",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Decision recorded"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/exit-papers/{id}/export": {
            "get": {
                "tags": ["ExitPapers"],
                "summary": "Download a decided exit paper as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF file"},
                    "412": {"description": "Paper still pending or export disabled"}
                }
            }
        },
        "/maintenance": {
            "get": {
                "tags": ["Maintenance"],
                "summary": "List maintenance requests",
                "responses": {
                    "200": {"description": "Request list"}
                }
            },
            "post": {
                "tags": ["Maintenance"],
                "summary": "Report a room defect",
                "responses": {
                    "201": {"description": "Request created"}
                }
            }
        },
        "/dashboard/occupancy": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Occupancy dashboard",
                "responses": {
                    "200": {"description": "Occupancy summary", "schema": {"$ref": "#/definitions/OccupancySummary"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "PlacementActionRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string", "enum": ["auto_assign"]}
            }
        },
        "AssignmentReport": {
            "type": "object",
            "properties": {
                "assigned": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AssignStudentResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "placement_id": {"type": "string"},
                "room_id": {"type": "string"},
                "block_id": {"type": "string"}
            }
        },
        "ImportReport": {
            "type": "object",
            "properties": {
                "imported": {"type": "integer"},
                "assigned": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "OccupancySummary": {
            "type": "object",
            "properties": {
                "total_capacity": {"type": "integer"},
                "total_occupied": {"type": "integer"},
                "unassigned_count": {"type": "integer"},
                "active_placements": {"type": "integer"},
                "blocks": {"type": "array", "items": {"type": "object"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
