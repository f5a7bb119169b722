package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// plain re-encodes a result into maps and slices keyed by the JSON field
// names, so the default resolvers see the same shape as the REST API.
func plain(v any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: graphql.Int},
		},
	})

	endpointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Endpoint",
		Fields: graphql.Fields{
			"time":       &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"day_offset": &graphql.Field{Type: graphql.Int},
		},
	})

	itineraryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Itinerary",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"operator":         &graphql.Field{Type: graphql.String},
			"bus_type":         &graphql.Field{Type: graphql.String},
			"amenities":        &graphql.Field{Type: graphql.NewList(graphql.String)},
			"departure":        &graphql.Field{Type: endpointType},
			"arrival":          &graphql.Field{Type: endpointType},
			"duration":         &graphql.Field{Type: graphql.String},
			"duration_minutes": &graphql.Field{Type: graphql.Int},
			"price":            &graphql.Field{Type: graphql.Int},
			"seats":            &graphql.Field{Type: graphql.Int},
			"date":             &graphql.Field{Type: graphql.String},
		},
	})

	searchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Search",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"from":       &graphql.Field{Type: graphql.String},
			"to":         &graphql.Field{Type: graphql.String},
			"date":       &graphql.Field{Type: graphql.String},
			"bus_type":   &graphql.Field{Type: graphql.String},
			"results":    &graphql.Field{Type: graphql.NewList(itineraryType)},
			"message":    &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.String},
		},
	})

	seatType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Seat",
		Fields: graphql.Fields{
			"number":    &graphql.Field{Type: graphql.Int},
			"row":       &graphql.Field{Type: graphql.Int},
			"col":       &graphql.Field{Type: graphql.Int},
			"state":     &graphql.Field{Type: graphql.String},
			"left_side": &graphql.Field{Type: graphql.Boolean},
		},
	})

	seatRowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SeatRow",
		Fields: graphql.Fields{
			"label": &graphql.Field{Type: graphql.Int},
			"seats": &graphql.Field{Type: graphql.NewList(seatType)},
		},
	})

	seatMapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SeatMap",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"bus_id":     &graphql.Field{Type: graphql.String},
			"search_id":  &graphql.Field{Type: graphql.String},
			"rows":       &graphql.Field{Type: graphql.NewList(seatRowType)},
			"created_at": &graphql.Field{Type: graphql.String},
		},
	})

	trackingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrackingSession",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"key":          &graphql.Field{Type: graphql.String},
			"route_id":     &graphql.Field{Type: graphql.String},
			"progress":     &graphql.Field{Type: graphql.Float},
			"status":       &graphql.Field{Type: graphql.String},
			"position":     &graphql.Field{Type: geoPointType},
			"next_stop":    &graphql.Field{Type: graphql.String},
			"remaining":    &graphql.Field{Type: graphql.String},
			"remaining_km": &graphql.Field{Type: graphql.Float},
			"ticks":        &graphql.Field{Type: graphql.Int},
			"started_at":   &graphql.Field{Type: graphql.String},
			"updated_at":   &graphql.Field{Type: graphql.String},
		},
	})

	offerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Offer",
		Fields: graphql.Fields{
			"code":        &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"categories":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"discount":    &graphql.Field{Type: graphql.String},
			"valid_until": &graphql.Field{Type: graphql.String},
		},
	})

	faqType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FAQ",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"topic":    &graphql.Field{Type: graphql.String},
			"question": &graphql.Field{Type: graphql.String},
			"answer":   &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: graphql.Int},
			"active":   &graphql.Field{Type: graphql.Boolean},
		},
	})

	paymentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Payment",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"booking_id": &graphql.Field{Type: graphql.String},
			"method":     &graphql.Field{Type: graphql.String},
			"option":     &graphql.Field{Type: graphql.String},
			"card_last4": &graphql.Field{Type: graphql.String},
			"status":     &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.String},
			"updated_at": &graphql.Field{Type: graphql.String},
		},
	})

	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"cities": &graphql.Field{
				Type:        graphql.NewList(cityType),
				Description: "Bookable cities in display order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.Cities.List(p.Context))
				},
			},
			"search": &graphql.Field{
				Type:        searchType,
				Description: "A stored search with its results",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.Searches.Get(p.Context, p.Args["id"].(string)))
				},
			},
			"seatMap": &graphql.Field{
				Type:        seatMapType,
				Description: "An open seat map",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.Seats.Get(p.Context, p.Args["id"].(string)))
				},
			},
			"trackingSession": &graphql.Field{
				Type:        trackingType,
				Description: "Latest record of a tracking session",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.Tracking.Get(p.Context, p.Args["id"].(string)))
				},
			},
			"offers": &graphql.Field{
				Type:        graphql.NewList(offerType),
				Description: "Offers under a category (all by default)",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "all"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.Offers.List(p.Context, p.Args["category"].(string)))
				},
			},
			"faqs": &graphql.Field{
				Type:        graphql.NewList(faqType),
				Description: "FAQ accordion with an optional open panel",
				Args: graphql.FieldConfigArgument{
					"open": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.FAQs.Accordion(p.Context, p.Args["open"].(string), ""))
				},
			},
			"payment": &graphql.Field{
				Type:        paymentType,
				Description: "A payment by id",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return plain(deps.Payments.Get(p.Context, p.Args["id"].(string)))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
