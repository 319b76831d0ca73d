// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/portal/main.go -o docs
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
        "/": {"get": {"tags": ["auth"], "summary": "Login page", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Login", "consumes": ["application/json", "application/x-www-form-urlencoded"], "responses": {"303": {"description": "See Other"}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict"}}}},
        "/logout": {"post": {"tags": ["auth"], "summary": "Logout", "responses": {"303": {"description": "See Other"}}}},
        "/session": {"get": {"tags": ["auth"], "summary": "Current session", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/admin-dashboard": {"get": {"tags": ["admin"], "summary": "Direction overview", "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {
            "get": {"tags": ["admin"], "summary": "List accounts", "parameters": [{"type": "string", "name": "role", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create an account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/admin/users/{userId}": {"delete": {"tags": ["admin"], "summary": "Delete an account", "parameters": [{"type": "integer", "name": "userId", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/admin/users/{userId}/role": {"patch": {"tags": ["admin"], "summary": "Change an account's role", "parameters": [{"type": "integer", "name": "userId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/classes": {
            "get": {"tags": ["admin"], "summary": "List classes", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a class", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/matieres": {
            "get": {"tags": ["admin"], "summary": "List subjects", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create a subject", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/bulletins": {
            "get": {"tags": ["admin"], "summary": "List bulletins", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Generate a class bulletin", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/bulletins/{bulletinId}/confirm": {"post": {"tags": ["admin"], "summary": "Confirm a bulletin", "parameters": [{"type": "integer", "name": "bulletinId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/bulletins/{bulletinId}/download": {"get": {"tags": ["admin"], "summary": "Download a class bulletin", "produces": ["application/pdf"], "parameters": [{"type": "integer", "name": "bulletinId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/supervisor-dashboard": {"get": {"tags": ["supervisor"], "summary": "Supervisor overview", "responses": {"200": {"description": "OK"}}}},
        "/supervisor/select-class": {"get": {"tags": ["supervisor"], "summary": "Classes to take attendance for", "responses": {"200": {"description": "OK"}}}},
        "/supervisor/take-attendance/students/{classId}": {
            "get": {"tags": ["supervisor"], "summary": "Students of a class", "parameters": [{"type": "integer", "name": "classId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["supervisor"], "summary": "Take class attendance", "parameters": [{"type": "integer", "name": "classId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "502": {"description": "Bad Gateway"}}}
        },
        "/supervisor/take-attendance/professors": {
            "get": {"tags": ["supervisor"], "summary": "Professors to take attendance for", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["supervisor"], "summary": "Take professor attendance", "responses": {"201": {"description": "Created"}}}
        },
        "/supervisor/attendance-history": {"get": {"tags": ["supervisor"], "summary": "Attendance history", "parameters": [{"type": "integer", "name": "classe", "in": "query"}, {"type": "integer", "name": "student", "in": "query"}, {"type": "string", "name": "status", "in": "query"}, {"type": "string", "name": "date", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/professor-dashboard": {"get": {"tags": ["professor"], "summary": "Professor overview", "responses": {"200": {"description": "OK"}}}},
        "/professor/class/{classId}": {"get": {"tags": ["professor"], "summary": "Class workspace", "parameters": [{"type": "integer", "name": "classId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/professor/subject/{subjectId}/create-assignment": {"post": {"tags": ["professor"], "summary": "Create an assignment", "parameters": [{"type": "integer", "name": "subjectId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}},
        "/professor/assignment/{assignmentId}/grade": {
            "get": {"tags": ["professor"], "summary": "Grading sheet", "parameters": [{"type": "integer", "name": "assignmentId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["professor"], "summary": "Submit grades", "parameters": [{"type": "integer", "name": "assignmentId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/parent-dashboard": {"get": {"tags": ["parent"], "summary": "Parent overview", "responses": {"200": {"description": "OK"}}}},
        "/parent/child/{childId}": {"get": {"tags": ["parent"], "summary": "Child overview", "parameters": [{"type": "integer", "name": "childId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/parent/child/{childId}/bulletins/{bulletinId}/download": {"get": {"tags": ["parent"], "summary": "Download a child's bulletin", "produces": ["application/pdf"], "parameters": [{"type": "integer", "name": "childId", "in": "path", "required": true}, {"type": "integer", "name": "bulletinId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/student-dashboard": {"get": {"tags": ["student"], "summary": "Student overview", "responses": {"200": {"description": "OK"}}}},
        "/student/bulletins/{bulletinId}/download": {"get": {"tags": ["student"], "summary": "Download my bulletin", "produces": ["application/pdf"], "parameters": [{"type": "integer", "name": "bulletinId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "School Portal API",
	Description:      "Session gateway in front of the school management backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
