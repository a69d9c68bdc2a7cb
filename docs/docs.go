// Package docs registers the Swagger 2.0 document served under /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": [],
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "kkambbaki",
            "url": "https://github.com/kkambbaki/backend"
        },
        "version": "{{.Version}}"
    },
    "host": "localhost:8000",
    "basePath": "/api/v1",
    "paths": {
        "/users/login/": {
            "post": {
                "tags": ["users"],
                "summary": "Log in with username and password",
                "operationId": "login",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Bad credentials or inactive account", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/logout/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Revoke the access token and an optional refresh token",
                "operationId": "logout",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/LogoutRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/registration/": {
            "post": {
                "tags": ["users"],
                "summary": "Register a parent account",
                "operationId": "register",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RegistrationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/token/refresh/": {
            "post": {
                "tags": ["users"],
                "summary": "Rotate a refresh token",
                "operationId": "refreshToken",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenPairResponse"}},
                    "401": {"description": "Invalid or revoked token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/token/verify/": {
            "post": {
                "tags": ["users"],
                "summary": "Check a token",
                "operationId": "verifyToken",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/VerifyTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/check-username/": {
            "get": {
                "tags": ["users"],
                "summary": "Check whether a username is taken",
                "operationId": "checkUsername",
                "parameters": [{"in": "query", "name": "username", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UsernameExistsResponse"}},
                    "400": {"description": "Missing parameter", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/user/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user",
                "operationId": "getCurrentUser",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "403": {"description": "Inactive account", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/email/": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Set the account email",
                "operationId": "updateEmail",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UpdateEmailRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "400": {"description": "Invalid address", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/child/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "The registered child",
                "operationId": "getChild",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ChildResponse"}},
                    "404": {"description": "No child registered", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Create or update the child",
                "operationId": "saveChild",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ChildRequest"}}],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ChildResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ChildResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/games/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["games"],
                "summary": "Active games",
                "operationId": "listGames",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/GameResponse"}}}
                }
            }
        },
        "/games/bb-star/start/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["games"],
                "summary": "Start a 뿅뿅 아기별 session",
                "operationId": "startBBStar",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/StartSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StartSessionResponse"}},
                    "400": {"description": "Game inactive or child unknown", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/games/bb-star/finish/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["games"],
                "summary": "Finish a 뿅뿅 아기별 session",
                "operationId": "finishBBStar",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/FinishSessionRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FinishSessionResponse"}},
                    "400": {"description": "Session already finished", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Unknown session", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/games/kids-traffic/start/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["games"],
                "summary": "Start a 꼬마 교통지킴이 session",
                "operationId": "startKidsTraffic",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/StartSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StartSessionResponse"}},
                    "400": {"description": "Game inactive or child unknown", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/games/kids-traffic/finish/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["games"],
                "summary": "Finish a 꼬마 교통지킴이 session",
                "operationId": "finishKidsTraffic",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/FinishKidsTrafficRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FinishSessionResponse"}},
                    "400": {"description": "Session already finished", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Unknown session", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/games/api/ranking/": {
            "get": {
                "tags": ["ranking"],
                "summary": "Public leaderboard",
                "operationId": "getRankingBoard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RankingBoardResponse"}}
                }
            },
            "post": {
                "tags": ["ranking"],
                "summary": "Record a leaderboard entry",
                "operationId": "recordRanking",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RankingRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/RankingRecordedResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/reports/": {
            "get": {
                "security": [{"BearerAuth": []}, {"BotToken": []}],
                "tags": ["reports"],
                "summary": "Report detail",
                "operationId": "getReport",
                "parameters": [{"in": "query", "name": "pin", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReportDetailResponse"}},
                    "400": {"description": "PIN missing or malformed", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "No report", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "PIN mismatch", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}, {"BotToken": []}],
                "tags": ["reports"],
                "summary": "Report detail with the PIN in the body",
                "operationId": "postReport",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/ReportDetailRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReportDetailResponse"}},
                    "400": {"description": "PIN missing or malformed", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "No report", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "PIN mismatch", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/reports/status/": {
            "post": {
                "security": [{"BearerAuth": []}, {"BotToken": []}],
                "tags": ["reports"],
                "summary": "Report status, queueing a rebuild when stale",
                "operationId": "checkReportStatus",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReportStatusResponse"}}
                }
            }
        },
        "/reports/email/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Email the report as PDF",
                "operationId": "requestReportEmail",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/ReportEmailRequest"}}],
                "responses": {
                    "200": {"description": "Queued", "schema": {"$ref": "#/definitions/SuccessResponse"}},
                    "400": {"description": "No address", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "No report", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/reports/set-report-pin/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Set the report PIN",
                "operationId": "setReportPin",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/SetReportPinRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SetReportPinResponse"}},
                    "400": {"description": "PIN malformed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/system/ping": {
            "get": {
                "tags": ["system"],
                "summary": "Liveness",
                "operationId": "ping",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/system/info": {
            "get": {
                "tags": ["system"],
                "summary": "Build and runtime information",
                "operationId": "getSystemInfo",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "ERR_VALIDATION"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/ErrorInfo"}
            }
        },
        "SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean", "example": true}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "LogoutRequest": {
            "type": "object",
            "properties": {"refresh": {"type": "string"}}
        },
        "RegistrationRequest": {
            "type": "object",
            "required": ["username", "password1", "password2"],
            "properties": {
                "username": {"type": "string", "example": "parent01"},
                "password1": {"type": "string"},
                "password2": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "required": ["refresh"],
            "properties": {"refresh": {"type": "string"}}
        },
        "VerifyTokenRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {"token": {"type": "string"}}
        },
        "UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "username": {"type": "string", "example": "parent01"},
                "email": {"type": "string", "example": "parent@example.com"}
            }
        },
        "TokenPairResponse": {
            "type": "object",
            "properties": {"access": {"type": "string"}, "refresh": {"type": "string"}}
        },
        "AuthResponse": {
            "type": "object",
            "properties": {
                "access": {"type": "string"},
                "refresh": {"type": "string"},
                "user": {"$ref": "#/definitions/UserResponse"}
            }
        },
        "UsernameExistsResponse": {
            "type": "object",
            "properties": {"exists": {"type": "boolean"}}
        },
        "UpdateEmailRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "ChildRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 50},
                "birth_year": {"type": "integer", "minimum": 1900},
                "gender": {"type": "string", "enum": ["M", "F", "X"]}
            }
        },
        "ChildResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "민준"},
                "birth_year": {"type": "integer", "example": 2019},
                "gender": {"type": "string", "example": "M"}
            }
        },
        "GameResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "code": {"type": "string", "enum": ["BB_STAR", "KIDS_TRAFFIC"]},
                "name": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "StartSessionRequest": {
            "type": "object",
            "required": ["child_id"],
            "properties": {"child_id": {"type": "integer"}}
        },
        "StartSessionResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string", "format": "uuid"},
                "game_code": {"type": "string"},
                "started_at": {"type": "string", "format": "date-time"},
                "status": {"type": "string", "example": "STARTED"}
            }
        },
        "FinishSessionRequest": {
            "type": "object",
            "required": ["session_id", "score"],
            "properties": {
                "session_id": {"type": "string", "format": "uuid"},
                "score": {"type": "integer", "minimum": 0},
                "wrong_count": {"type": "integer", "minimum": 0},
                "round_count": {"type": "integer", "minimum": 0},
                "success_count": {"type": "integer", "minimum": 0},
                "meta": {"type": "object"}
            }
        },
        "FinishKidsTrafficRequest": {
            "type": "object",
            "required": ["session_id", "score"],
            "properties": {
                "session_id": {"type": "string", "format": "uuid"},
                "score": {"type": "integer", "minimum": 0},
                "wrong_count": {"type": "integer", "minimum": 0},
                "round_count": {"type": "integer", "minimum": 0},
                "success_count": {"type": "integer", "minimum": 0},
                "reaction_ms_sum": {"type": "integer", "minimum": 0},
                "meta": {"type": "object"}
            }
        },
        "FinishSessionResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string", "format": "uuid"},
                "game_code": {"type": "string"},
                "score": {"type": "integer"},
                "wrong_count": {"type": "integer"},
                "round_count": {"type": "integer"},
                "success_count": {"type": "integer"},
                "reaction_ms_sum": {"type": "integer"},
                "meta": {"type": "object"}
            }
        },
        "RankingRequest": {
            "type": "object",
            "required": ["player_name"],
            "properties": {
                "game_code": {"type": "string", "enum": ["BB_STAR", "KIDS_TRAFFIC"]},
                "game_result_id": {"type": "integer", "description": "Copies game, score and round_count from the result; score is required without it"},
                "player_name": {"type": "string", "maxLength": 50},
                "organization": {"type": "string", "maxLength": 100},
                "contact": {"type": "string", "maxLength": 100},
                "score": {"type": "integer", "minimum": 0},
                "round_count": {"type": "integer", "minimum": 0}
            }
        },
        "RankingEntryResponse": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "player_name": {"type": "string"},
                "organization": {"type": "string"},
                "score": {"type": "integer"},
                "round_count": {"type": "integer"},
                "game_name": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "RankingBoardResponse": {
            "type": "object",
            "properties": {
                "bb_star": {"type": "array", "items": {"$ref": "#/definitions/RankingEntryResponse"}},
                "kids_traffic": {"type": "array", "items": {"$ref": "#/definitions/RankingEntryResponse"}},
                "all": {"type": "array", "items": {"$ref": "#/definitions/RankingEntryResponse"}},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "RankingRecordedResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "game_code": {"type": "string"},
                "game_result_id": {"type": "integer"},
                "player_name": {"type": "string"},
                "organization": {"type": "string"},
                "score": {"type": "integer"},
                "round_count": {"type": "integer"},
                "is_event_highlighted": {"type": "boolean"},
                "event_triggered_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ReportDetailRequest": {
            "type": "object",
            "properties": {"pin": {"type": "string"}}
        },
        "AdviceDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "GameReportDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "game_name": {"type": "string"},
                "game_code": {"type": "string"},
                "last_reflected_session_id": {"type": "string", "format": "uuid"},
                "is_up_to_date": {"type": "boolean"},
                "total_plays_count": {"type": "integer"},
                "total_play_rounds_count": {"type": "integer"},
                "max_rounds_count": {"type": "integer"},
                "total_reaction_ms_sum": {"type": "integer"},
                "total_play_actions_count": {"type": "integer"},
                "total_success_count": {"type": "integer"},
                "total_wrong_count": {"type": "integer"},
                "total_reaction_ms_avg": {"type": "integer"},
                "wrong_rate": {"type": "number"},
                "avg_rounds_count": {"type": "number"},
                "max_rounds_ratio": {"type": "number"},
                "meta": {"type": "object", "additionalProperties": true},
                "advices": {"type": "array", "items": {"$ref": "#/definitions/AdviceDetail"}},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ReportDetailResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "child": {"$ref": "#/definitions/ChildResponse"},
                "concentration_score": {"type": "integer"},
                "game_reports": {"type": "array", "items": {"$ref": "#/definitions/GameReportDetail"}},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ReportStatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["no_games_played", "no_up_to_date", "pending", "generating", "completed", "error"]},
                "description": {"type": "string"}
            }
        },
        "ReportEmailRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}}
        },
        "SetReportPinRequest": {
            "type": "object",
            "required": ["pin"],
            "properties": {"pin": {"type": "string", "minLength": 4, "maxLength": 6}}
        },
        "SetReportPinResponse": {
            "type": "object",
            "properties": {
                "is_success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Report pin set successfully."}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        },
        "BotToken": {
            "description": "Single-use report bot token",
            "type": "apiKey",
            "name": "X-BOT-TOKEN",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "깜빡이 API",
	Description:      "아동 집중력 게임 세션, 랭킹, 집중력 리포트 API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
