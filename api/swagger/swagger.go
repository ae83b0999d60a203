package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LUCT Reporting API",
        "description": "Academic reporting portal for students, lecturers, PRLs and PLs",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Registration, login and profile"},
        {"name": "Lecturer", "description": "Lecture reports and class monitoring"},
        {"name": "PRL", "description": "Stream review and lecturer ratings"},
        {"name": "PL", "description": "Programme oversight, catalogue and exports"},
        {"name": "Reporting", "description": "Ratings and activity feeds"},
        {"name": "Student", "description": "Attendance and complaints"},
        {"name": "Notifications", "description": "Per-user mailbox"},
        {"name": "Classes", "description": "Module rosters"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log in under a role",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/streams": {
            "get": {
                "tags": ["Authentication"],
                "summary": "List streams",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/classes": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Modules assigned to the lecturer",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/streams": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Streams the lecturer teaches in",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/streams/{streamId}/modules": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Lecturer modules in a stream",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "streamId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/reports": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Reports submitted by the lecturer",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lecturer"],
                "summary": "Submit a lecture report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/modules/{moduleId}/students": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Module roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "moduleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/monitoring": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Attendance in the lecturer's modules",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/prls": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "PRLs of the lecturer's streams",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lecturer/rate-prl": {
            "post": {
                "tags": ["Lecturer"],
                "summary": "Rate a PRL",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RatePRLRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prl/courses": {
            "get": {
                "tags": ["PRL"],
                "summary": "Modules in the PRL stream",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prl/reports": {
            "get": {
                "tags": ["PRL"],
                "summary": "Reports in the PRL stream",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prl/reports/{id}/feedback": {
            "put": {
                "tags": ["PRL"],
                "summary": "Record PRL feedback",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PRLFeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prl/lecturers": {
            "get": {
                "tags": ["PRL"],
                "summary": "Lecturers in the PRL stream",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prl/stream": {
            "get": {
                "tags": ["PRL"],
                "summary": "The PRL's stream",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/prl/rate-lecturer": {
            "post": {
                "tags": ["PRL"],
                "summary": "Rate a lecturer",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RateLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/courses": {
            "get": {
                "tags": ["PL"],
                "summary": "All modules",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["PL"],
                "summary": "Create a module",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateModuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/courses/{id}/assign-lecturer": {
            "put": {
                "tags": ["PL"],
                "summary": "Assign a lecturer to a module",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/reports": {
            "get": {
                "tags": ["PL"],
                "summary": "All reports",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/reports/export": {
            "get": {
                "tags": ["PL"],
                "summary": "Export reports as csv or pdf",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/reports/{id}/feedback": {
            "put": {
                "tags": ["PL"],
                "summary": "Record PL feedback and approve",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PLFeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/lecturers": {
            "get": {
                "tags": ["PL"],
                "summary": "All lecturers",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/prls": {
            "get": {
                "tags": ["PL"],
                "summary": "All PRLs",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/streams": {
            "get": {
                "tags": ["PL"],
                "summary": "All streams",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/dashboard": {
            "get": {
                "tags": ["PL"],
                "summary": "Dashboard counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/all-ratings": {
            "get": {
                "tags": ["PL"],
                "summary": "Every rating",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pl/rate-prl": {
            "post": {
                "tags": ["PL"],
                "summary": "Rate a PRL",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RatePRLRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reporting/ratings": {
            "post": {
                "tags": ["Reporting"],
                "summary": "Submit a rating",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reporting/ratings/{userId}": {
            "get": {
                "tags": ["Reporting"],
                "summary": "Ratings received by a user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reporting/my-ratings": {
            "get": {
                "tags": ["Reporting"],
                "summary": "Ratings the caller has given",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reporting/reports/{id}": {
            "get": {
                "tags": ["Reporting"],
                "summary": "Report detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reporting/monitoring/recent": {
            "get": {
                "tags": ["Reporting"],
                "summary": "Latest reports and ratings",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reporting/monitoring/streams": {
            "get": {
                "tags": ["Reporting"],
                "summary": "Per-stream totals",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/modules": {
            "get": {
                "tags": ["Student"],
                "summary": "Enrolled modules",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/stream-lecturers": {
            "get": {
                "tags": ["Student"],
                "summary": "Lecturers in the student's stream",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/attendance": {
            "get": {
                "tags": ["Student"],
                "summary": "Attendance history",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Student"],
                "summary": "Mark attendance",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/complaints": {
            "get": {
                "tags": ["Student"],
                "summary": "Complaints filed",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Student"],
                "summary": "File a complaint",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitComplaintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Latest notifications",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Unread count",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/mark-all-read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark all read",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark one read",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}": {
            "delete": {
                "tags": ["Notifications"],
                "summary": "Delete a notification",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{moduleId}/students": {
            "get": {
                "tags": ["Classes"],
                "summary": "Module roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "moduleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Enroll a student by number",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "moduleId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{moduleId}/students/{studentId}": {
            "delete": {
                "tags": ["Classes"],
                "summary": "Remove a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "moduleId", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "password_confirm": {"type": "string"},
                "student_number": {"type": "string"},
                "primary_stream_id": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "SubmitReportRequest": {
            "type": "object",
            "properties": {
                "stream_id": {"type": "string"},
                "module_id": {"type": "string"},
                "week_of_reporting": {"type": "integer"},
                "date_of_lecture": {"type": "string"},
                "actual_students_present": {"type": "integer"},
                "venue": {"type": "string"},
                "scheduled_time": {"type": "string"},
                "topic_taught": {"type": "string"},
                "learning_outcomes": {"type": "string"},
                "recommendations": {"type": "string"}
            }
        },
        "PRLFeedbackRequest": {
            "type": "object",
            "properties": {
                "prl_feedback": {"type": "string"}
            }
        },
        "PLFeedbackRequest": {
            "type": "object",
            "properties": {
                "pl_feedback": {"type": "string"}
            }
        },
        "SubmitRatingRequest": {
            "type": "object",
            "properties": {
                "ratee_id": {"type": "string"},
                "rating_type": {"type": "string"},
                "score": {"type": "integer"},
                "comments": {"type": "string"}
            }
        },
        "RatePRLRequest": {
            "type": "object",
            "properties": {
                "prl_id": {"type": "string"},
                "score": {"type": "integer"},
                "comments": {"type": "string"}
            }
        },
        "RateLecturerRequest": {
            "type": "object",
            "properties": {
                "lecturer_id": {"type": "string"},
                "score": {"type": "integer"},
                "comments": {"type": "string"}
            }
        },
        "CreateModuleRequest": {
            "type": "object",
            "properties": {
                "module_name": {"type": "string"},
                "module_code": {"type": "string"},
                "class_name": {"type": "string"},
                "stream_id": {"type": "string"},
                "lecturer_id": {"type": "string"}
            }
        },
        "AssignLecturerRequest": {
            "type": "object",
            "properties": {
                "lecturer_id": {"type": "string"}
            }
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "module_id": {"type": "string"},
                "lecturer_id": {"type": "string"},
                "lecture_date": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "SubmitComplaintRequest": {
            "type": "object",
            "properties": {
                "module_id": {"type": "string"},
                "lecturer_id": {"type": "string"},
                "complaint_type": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "EnrollStudentRequest": {
            "type": "object",
            "properties": {
                "student_number": {"type": "string"}
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
