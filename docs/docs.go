// Package docs is generated by swaggo/swag. Regenerate with
// swag init -g cmd/server/main.go -o docs
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
        "/register": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/logout": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout user",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/me": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.UserResponse"}}}
            },
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Delete current user",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}
            },
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a new post",
                "parameters": [
                    {"description": "Post data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CreatePostRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get post by ID",
                "parameters": [{"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Update post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/http.UpdatePostRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete post",
                "parameters": [{"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts/{id}/comments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Comment thread of a post",
                "parameters": [{"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.CommentNode"}}}}
            },
            "post": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Comment on a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"description": "Comment", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CreateCommentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/comments/{id}": {
            "put": {
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Edit or move a comment",
                "parameters": [
                    {"type": "string", "description": "Comment ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/http.UpdateCommentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            },
            "delete": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Delete a comment",
                "parameters": [{"type": "string", "description": "Comment ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/users/{id}/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List a user's posts",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/like/{post_id}": {
            "post": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Like or unlike a post",
                "parameters": [{"type": "string", "description": "Post ID", "name": "post_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Unliked"}, "201": {"description": "Liked"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}
            }
        },
        "/post/{id}/likes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Like count of a post",
                "parameters": [{"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/notifications": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Likes and comments on the current user's posts, newest first.",
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Recent notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.Notification"}}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/post/{id}/is_liked": {
            "get": {
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Whether the current user liked a post",
                "parameters": [{"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "entity.CommentNode": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "post_id": {"type": "string"},
                "author_id": {"type": "string"},
                "author_name": {"type": "string"},
                "parent_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "replies": {"type": "array", "items": {"$ref": "#/definitions/entity.CommentNode"}}
            }
        },
        "entity.Notification": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "actor_id": {"type": "string"},
                "post_id": {"type": "string"},
                "comment_id": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "http.CreateCommentRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string"}, "parent_id": {"type": "string"}}
        },
        "http.CreatePostRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string"}, "title": {"type": "string"}}
        },
        "http.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "http.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user_id": {"type": "string"}, "username": {"type": "string"}}
        },
        "http.RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "username": {"type": "string"}}
        },
        "http.RegisterResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user_id": {"type": "string"}}
        },
        "http.UpdateCommentRequest": {
            "type": "object",
            "properties": {"content": {"type": "string"}, "parent_id": {"type": "string"}}
        },
        "http.UpdatePostRequest": {
            "type": "object",
            "properties": {"content": {"type": "string"}, "title": {"type": "string"}}
        },
        "http.UserResponse": {
            "type": "object",
            "properties": {"created_at": {"type": "string"}, "email": {"type": "string"}, "id": {"type": "string"}, "username": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "description": "Session token from /login, sent as the postboard_session cookie or as \"Bearer <token>\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Postboard API",
	Description:      "Posts, threaded comments and likes behind session login.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
