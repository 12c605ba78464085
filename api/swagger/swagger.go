package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Attendance API",
        "description": "Student registration, approval and daily attendance tracking",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and self registration"},
        {"name": "Students", "description": "Account management and approval"},
        {"name": "Attendance", "description": "Daily ledger and roster"},
        {"name": "Records", "description": "Period queries and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate as admin or student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account pending approval"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or password mismatch"},
                    "409": {"description": "Email or student id already registered"}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Students"],
                "summary": "Get the authenticated student's own account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List the authenticated student's attendance history",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark today's attendance",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Already marked today", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Marked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Account not confirmed"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List student accounts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["all", "pending", "confirmed"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student account detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student identity fields",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email or student id already registered"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student account and its attendance records",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/students/{id}/confirm": {
            "post": {
                "tags": ["Students"],
                "summary": "Approve a pending registration",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/attendance/roster": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Daily roster across all students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "description": "YYYY-MM-DD, defaults to today"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date"}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "Query attendance records by period",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "period", "in": "query", "type": "string", "enum": ["daily", "weekly", "monthly", "yearly", "custom"]},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid period or date"}
                }
            }
        },
        "/records/export": {
            "get": {
                "tags": ["Records"],
                "summary": "Export attendance records for a period",
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "period", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["xlsx", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Invalid period, date or format"}
                }
            }
        },
        "/records/export/all": {
            "get": {
                "tags": ["Records"],
                "summary": "Export the full attendance ledger",
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["xlsx", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
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
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "course": {"type": "string"},
                "email": {"type": "string"},
                "gender": {"type": "string"},
                "confirmed": {"type": "boolean"},
                "confirmation_date": {"type": "string"},
                "registration_date": {"type": "string"}
            }
        },
        "AttendanceRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "date": {"type": "string"},
                "time_in": {"type": "string"},
                "time_out": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["admin", "student"]},
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["role", "username", "password"]
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "course": {"type": "string"},
                "email": {"type": "string"},
                "gender": {"type": "string"},
                "password": {"type": "string"},
                "re_password": {"type": "string"}
            },
            "required": ["student_id", "full_name", "course", "email", "gender", "password", "re_password"]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "course": {"type": "string"},
                "email": {"type": "string"},
                "gender": {"type": "string"}
            },
            "required": ["student_id", "full_name", "course", "email", "gender"]
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
