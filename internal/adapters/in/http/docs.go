package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// SwaggerInfo holds the exported Swagger 2.0 document of the HTTP API. It is
// served by /swagger/* and converted to OpenAPI 3 for /api/openapi.json.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Restaurant back-office analytics API",
	Description:      "Dashboard, reports, order listing and item rating maintenance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

var openAPIV3 = sync.OnceValues(func() (*openapi3.T, error) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		return nil, err
	}

	var doc openapi2.T
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode swagger document: %w", err)
	}

	return openapi2conv.ToV3(&doc)
})

func registerDocs(e *echo.Echo) {
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/api/openapi.json", func(ctx echo.Context) error {
		doc, err := openAPIV3()
		if err != nil {
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Failed to build OpenAPI document",
			})
		}
		return ctx.JSON(http.StatusOK, doc)
	})
}

const docTemplate = `{
    "swagger": "2.0",
    "schemes": {{ marshal .Schemes }},
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/dashboard/overview": {
            "get": {
                "summary": "Dashboard overview for today, yesterday and the current week",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Restaurant-ID", "in": "header"},
                    {"type": "string", "name": "anchorDate", "in": "query"},
                    {"type": "integer", "name": "recentLimit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardOverview"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/reports/overview": {
            "get": {
                "summary": "Report totals, revenue series, peak hours and top items",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Restaurant-ID", "in": "header"},
                    {"type": "string", "name": "range", "in": "query", "enum": ["today", "yesterday", "week", "month", "this_week", "this_month"]},
                    {"type": "string", "name": "anchorDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ReportOverview"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/reports/export.csv": {
            "get": {
                "summary": "Report overview as a sectioned CSV file",
                "produces": ["text/csv"],
                "parameters": [
                    {"type": "string", "name": "X-Restaurant-ID", "in": "header"},
                    {"type": "string", "name": "range", "in": "query"},
                    {"type": "string", "name": "anchorDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/reports/export.pdf": {
            "get": {
                "summary": "Report overview as a printable PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"type": "string", "name": "X-Restaurant-ID", "in": "header"},
                    {"type": "string", "name": "range", "in": "query"},
                    {"type": "string", "name": "anchorDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/orders": {
            "get": {
                "summary": "Paged order listing for a date preset",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Restaurant-ID", "in": "header"},
                    {"type": "string", "name": "date", "in": "query", "enum": ["today", "yesterday", "this_week", "this_month"]},
                    {"type": "string", "name": "anchorDate", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "tableId", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "pageSize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/items/{itemId}/rating/recompute": {
            "post": {
                "summary": "Rebuild an item's rating from its published reviews",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Restaurant-ID", "in": "header"},
                    {"type": "string", "name": "itemId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemRating"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "Range": {
            "type": "object",
            "properties": {
                "period": {"type": "string"},
                "from": {"type": "string", "format": "date-time"},
                "to": {"type": "string", "format": "date-time"},
                "granularity": {"type": "string", "enum": ["day", "iso_week"]},
                "label": {"type": "string"},
                "timezone": {"type": "string"}
            }
        },
        "SeriesPoint": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "revenueCents": {"type": "integer"}
            }
        },
        "HourBucket": {
            "type": "object",
            "properties": {
                "hour": {"type": "integer"},
                "orders": {"type": "integer"}
            }
        },
        "TopItem": {
            "type": "object",
            "properties": {
                "itemId": {"type": "string"},
                "name": {"type": "string"},
                "totalQty": {"type": "integer"},
                "revenueCents": {"type": "integer"},
                "orderCount": {"type": "integer"}
            }
        },
        "ReportTotals": {
            "type": "object",
            "properties": {
                "revenueCents": {"type": "integer"},
                "ordersServed": {"type": "integer"},
                "avgOrderValueCents": {"type": "integer"},
                "avgPrepTimeSeconds": {"type": "number", "x-nullable": true},
                "avgPrepSampleSize": {"type": "integer"}
            }
        },
        "ReportOverview": {
            "type": "object",
            "properties": {
                "restaurantId": {"type": "string"},
                "range": {"$ref": "#/definitions/Range"},
                "totals": {"$ref": "#/definitions/ReportTotals"},
                "revenueSeries": {"type": "array", "items": {"$ref": "#/definitions/SeriesPoint"}},
                "peakHours": {"type": "array", "items": {"$ref": "#/definitions/HourBucket"}},
                "topItems": {"type": "array", "items": {"$ref": "#/definitions/TopItem"}}
            }
        },
        "RecentOrder": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "tableNumber": {"type": "string"},
                "status": {"type": "string"},
                "submittedAt": {"type": "string", "format": "date-time"},
                "totalCents": {"type": "integer"},
                "itemsSummary": {"type": "string"}
            }
        },
        "DashboardToday": {
            "type": "object",
            "properties": {
                "range": {"$ref": "#/definitions/Range"},
                "revenueCents": {"type": "integer"},
                "revenueDeltaCents": {"type": "integer"},
                "ordersServed": {"type": "integer"},
                "ordersServedDelta": {"type": "integer"},
                "occupiedTables": {"type": "integer"},
                "totalTables": {"type": "integer"},
                "avgPrepTimeSeconds": {"type": "number", "x-nullable": true},
                "avgPrepSampleSize": {"type": "integer"},
                "topItems": {"type": "array", "items": {"$ref": "#/definitions/TopItem"}},
                "recentOrders": {"type": "array", "items": {"$ref": "#/definitions/RecentOrder"}}
            }
        },
        "DashboardYesterday": {
            "type": "object",
            "properties": {
                "range": {"$ref": "#/definitions/Range"},
                "revenueCents": {"type": "integer"},
                "ordersServed": {"type": "integer"}
            }
        },
        "DashboardWeek": {
            "type": "object",
            "properties": {
                "range": {"$ref": "#/definitions/Range"},
                "revenueSeries": {"type": "array", "items": {"$ref": "#/definitions/SeriesPoint"}}
            }
        },
        "DashboardOverview": {
            "type": "object",
            "properties": {
                "restaurantId": {"type": "string"},
                "today": {"$ref": "#/definitions/DashboardToday"},
                "yesterday": {"$ref": "#/definitions/DashboardYesterday"},
                "week": {"$ref": "#/definitions/DashboardWeek"}
            }
        },
        "OrderListItem": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "tableId": {"type": "string", "x-nullable": true},
                "tableNumber": {"type": "string"},
                "status": {"type": "string"},
                "submittedAt": {"type": "string", "format": "date-time"},
                "totalCents": {"type": "integer"},
                "itemCount": {"type": "integer"},
                "itemsSummary": {"type": "string"}
            }
        },
        "OrderList": {
            "type": "object",
            "properties": {
                "range": {"$ref": "#/definitions/Range"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/OrderListItem"}},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "ItemRating": {
            "type": "object",
            "properties": {
                "itemId": {"type": "string"},
                "count": {"type": "integer"},
                "average": {"type": "number"},
                "breakdown": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        }
    }
}`
