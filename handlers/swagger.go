package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>graphers API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "graphers", "version": "v1.0.0", "description": "Candidate management API" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Candidate": { "type": "object", "required": ["fullname","email","address","education","phone_number","experience_years","skills"], "properties": {
        "fullname": {"type":"string","minLength":2,"maxLength":50}, "email": {"type":"string","format":"email"}, "address": {"type":"string"},
        "education": {"type":"string"}, "phone_number": {"type":"string"}, "experience_years": {"type":"number","minimum":0},
        "skills": {"type":"array","items":{"type":"string"}} } },
      "User": { "type": "object", "required": ["fullname","email","password","city"], "properties": {
        "fullname": {"type":"string"}, "email": {"type":"string","format":"email"}, "password": {"type":"string","minLength":8}, "city": {"type":"string","minLength":1,"maxLength":50} } },
      "Credentials": { "type": "object", "required": ["email","password"], "properties": { "email": {"type":"string","format":"email"}, "password": {"type":"string"} } }
    }
  },
  "paths": {
    "/user/": { "post": { "tags": ["User"], "summary": "Register a new user", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/User"} } } }, "responses": { "200": { "description": "user added" }, "400": { "description": "email already registered" }, "422": { "description": "validation error" } } } },
    "/user/token": { "post": { "tags": ["User"], "summary": "Exchange credentials for a bearer token", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} }, "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}} } } }, "responses": { "200": { "description": "access_token, token_type, expires_in" }, "401": { "description": "incorrect username or password" } } } },
    "/user/login": { "post": { "tags": ["User"], "summary": "Login", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Credentials"} } } }, "responses": { "200": { "description": "token in response envelope" }, "401": { "description": "incorrect username or password" } } } },
    "/user/me": { "get": { "tags": ["User"], "summary": "Current user", "security": [{"bearer": []}], "responses": { "200": { "description": "user" }, "401": { "description": "unauthorized" } } } },
    "/candidate/": { "post": { "tags": ["Candidate"], "summary": "Create a candidate", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Candidate"} } } }, "responses": { "200": { "description": "candidate added" }, "400": { "description": "email already registered" }, "422": { "description": "validation error" } } } },
    "/candidate/all-candidates": { "get": { "tags": ["Candidate"], "summary": "List candidates", "security": [{"bearer": []}], "parameters": [
      {"name":"page","in":"query","schema":{"type":"integer","default":1}}, {"name":"limit","in":"query","schema":{"type":"integer","default":10,"maximum":100}}, {"name":"search","in":"query","schema":{"type":"string"}} ],
      "responses": { "200": { "description": "candidates" } } } },
    "/candidate/generate-report": { "get": { "tags": ["Candidate"], "summary": "Download every candidate as CSV", "security": [{"bearer": []}], "responses": { "200": { "description": "CSV report", "content": { "text/csv": {} } }, "500": { "description": "report could not be written" } } } },
    "/candidate/{id}": {
      "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}],
      "get": { "tags": ["Candidate"], "summary": "Fetch a candidate", "security": [{"bearer": []}], "responses": { "200": { "description": "candidate" }, "404": { "description": "not found" } } },
      "put": { "tags": ["Candidate"], "summary": "Partially update a candidate", "security": [{"bearer": []}], "responses": { "200": { "description": "updated" }, "400": { "description": "empty update" }, "404": { "description": "not found" } } },
      "delete": { "tags": ["Candidate"], "summary": "Delete a candidate", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "tags": ["API Health"], "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "tags": ["API Health"], "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "tags": ["API Health"], "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
