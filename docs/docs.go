// Package docs registers the OpenAPI document served at /docs.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Scoracle"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/groups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "List groups",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/league.GroupSummary"}}}
                }
            }
        },
        "/groups/{groupID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Get group standings",
                "parameters": [
                    {"type": "string", "description": "Group ID", "name": "groupID", "in": "path", "required": true},
                    {"type": "integer", "description": "Leave this round's results out", "name": "exclude_round", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/league.Table"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/groups/{groupID}/fixtures": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Get group fixtures",
                "parameters": [
                    {"type": "string", "description": "Group ID", "name": "groupID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/groups/{groupID}/forecast": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forecast"],
                "summary": "Get group forecast",
                "parameters": [
                    {"type": "string", "description": "Group ID", "name": "groupID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/groups/{groupID}/odds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["forecast"],
                "summary": "Get champion odds",
                "parameters": [
                    {"type": "string", "description": "Group ID", "name": "groupID", "in": "path", "required": true},
                    {"type": "integer", "description": "Number of simulated seasons", "name": "runs", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/matches/{matchID}/prediction": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Get match prediction",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/teams/{teamID}/scenarios": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Get team scenarios",
                "parameters": [
                    {"type": "string", "description": "Team ID", "name": "teamID", "in": "path", "required": true},
                    {"type": "integer", "description": "Points gap defining relevant teams", "name": "gap", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/scenarios/jobs": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Start scenario job",
                "parameters": [
                    {"description": "Team and optional gap", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ScenarioJobRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/jobs.Job"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/scenarios/jobs/{jobID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Get scenario job",
                "parameters": [
                    {"type": "string", "description": "Job ID (uuid)", "name": "jobID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jobs.Job"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Cancel scenario job",
                "parameters": [
                    {"type": "string", "description": "Job ID (uuid)", "name": "jobID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jobs.Job"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/results": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Submit result",
                "parameters": [
                    {"type": "string", "description": "Admin token", "name": "X-Admin-Token", "in": "header"},
                    {"description": "Result", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/league.ResultInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/results/{matchID}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["results"],
                "summary": "Edit result",
                "parameters": [
                    {"type": "string", "description": "Admin token", "name": "X-Admin-Token", "in": "header"},
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "New score", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ScoreEdit"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ScenarioJobRequest": {
            "type": "object",
            "properties": {
                "team_id": {"type": "string"},
                "gap": {"type": "integer"}
            }
        },
        "handler.ScoreEdit": {
            "type": "object",
            "properties": {
                "home_score": {"type": "integer"},
                "away_score": {"type": "integer"}
            }
        },
        "jobs.Job": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "running", "done", "failed", "cancelled"]},
                "result": {"type": "object"},
                "error": {"type": "string"},
                "created_at": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"}
            }
        },
        "league.GroupSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "played_matches": {"type": "integer"},
                "remaining_matches": {"type": "integer"},
                "next_round": {"type": "integer"},
                "completed": {"type": "boolean"},
                "leader_id": {"type": "string"}
            }
        },
        "league.ResultInput": {
            "type": "object",
            "properties": {
                "match_id": {"type": "string"},
                "home_score": {"type": "integer"},
                "away_score": {"type": "integer"},
                "home_scorers": {"type": "array", "items": {"type": "object"}},
                "away_scorers": {"type": "array", "items": {"type": "object"}}
            }
        },
        "league.Table": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "group_name": {"type": "string"},
                "excluded_round": {"type": "integer"},
                "completed": {"type": "boolean"},
                "rows": {"type": "array", "items": {"type": "object"}},
                "tie_breaks": {"type": "array", "items": {"type": "string"}}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Scoracle Tournament API",
	Description:      "League standings with tie-break explanations, next-round what-if scenarios, match predictions and season forecasts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
