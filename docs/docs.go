// Package docs registra la especificación OpenAPI del servicio para http-swagger.
// Regenerar con: swag init -g cmd/api/main.go
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
                "tags": [
                    "users"
                ],
                "summary": "Registrar usuario",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.registerRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/users.authResponse"
                        }
                    },
                    "400": {
                        "description": "MissingField / DuplicateUser",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        },
        "/login": {
            "post": {
                "tags": [
                    "users"
                ],
                "summary": "Login",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.loginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/users.authResponse"
                        }
                    },
                    "400": {
                        "description": "MissingField",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "InvalidCredentials",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        },
        "/pets": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Listar mis mascotas",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/pets.Pet"
                            }
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "pets"
                ],
                "summary": "Crear mascota",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "description": "payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.Input"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.Pet"
                        }
                    },
                    "400": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Obtener mascota",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.Pet"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "pets"
                ],
                "summary": "Actualizar mascota",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.Patch"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.Pet"
                        }
                    },
                    "400": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "pets"
                ],
                "summary": "Borrar mascota (y sus registros)",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/records": {
            "get": {
                "tags": [
                    "records"
                ],
                "summary": "Listar registros de una mascota",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/records.recordDoc"
                            }
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "records"
                ],
                "summary": "Crear registro médico",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/records.recordDoc"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/records.recordDoc"
                        }
                    },
                    "400": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        },
        "/records/{recordID}": {
            "get": {
                "tags": [
                    "records"
                ],
                "summary": "Obtener registro médico",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "recordID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/records.recordDoc"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "records"
                ],
                "summary": "Actualizar registro médico",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "recordID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/records.recordDoc"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/records.recordDoc"
                        }
                    },
                    "400": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "records"
                ],
                "summary": "Borrar registro médico",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "recordID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/history": {
            "get": {
                "tags": [
                    "history"
                ],
                "summary": "Historial de cambios de una mascota",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de usuario (AUTH_MODE=header)",
                        "name": "user-id",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "description": "Bearer token (AUTH_MODE=jwt)",
                        "name": "Authorization",
                        "in": "header"
                    },
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "types",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "to",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/events.ChangeEvent"
                            }
                        }
                    },
                    "400": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "401": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    },
                    "404": {
                        "description": "error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorBody"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "respond.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "users.registerRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "users.loginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "users.authResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "token": {
                    "type": "string"
                }
            }
        },
        "pets.Input": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "dog",
                        "cat",
                        "bird"
                    ]
                },
                "breed": {
                    "type": "string"
                },
                "dateOfBirth": {
                    "type": "string"
                }
            }
        },
        "pets.Patch": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "dog",
                        "cat",
                        "bird"
                    ]
                },
                "breed": {
                    "type": "string"
                },
                "dateOfBirth": {
                    "type": "string"
                }
            }
        },
        "pets.Pet": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "userId": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "dog",
                        "cat",
                        "bird"
                    ]
                },
                "breed": {
                    "type": "string"
                },
                "dateOfBirth": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "records.Attachment": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "uri": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "records.recordDoc": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "petId": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "vaccine",
                        "allergy",
                        "lab"
                    ]
                },
                "name": {
                    "type": "string"
                },
                "dateAdministered": {
                    "type": "string"
                },
                "reactions": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "enum": [
                            "rash",
                            "swelling",
                            "breathing",
                            "other",
                            "hives",
                            "vomiting",
                            "diarrhea"
                        ]
                    }
                },
                "severity": {
                    "type": "string",
                    "enum": [
                        "mild",
                        "severe"
                    ]
                },
                "dosage": {
                    "type": "number"
                },
                "instructions": {
                    "type": "string"
                },
                "attachments": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/records.Attachment"
                    }
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "events.ChangeEvent": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "petId": {
                    "type": "string"
                },
                "entity": {
                    "type": "string",
                    "enum": [
                        "pet",
                        "record"
                    ]
                },
                "entityId": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "PET_CREATED",
                        "PET_UPDATED",
                        "PET_DELETED",
                        "RECORD_CREATED",
                        "RECORD_UPDATED",
                        "RECORD_DELETED"
                    ]
                },
                "actorId": {
                    "type": "string"
                },
                "occurredAt": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Medical Records API",
	Description:      "Mascotas, registros médicos (vacunas, alergias, laboratorio) e historial de cambios por dueño.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
