package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/lanangwisana/sentracare-be-booking/internal/booking"
)

// CallerResolver extracts the verified caller from a resolver context.
type CallerResolver func(ctx context.Context) *booking.Caller

// NewSchema builds the booking query/mutation schema. Enum values are
// formatted into presentation labels here, at the boundary; the stored
// representation stays symbolic.
func NewSchema(svc *booking.Service, resolveCaller CallerResolver) (graphql.Schema, error) {
	if resolveCaller == nil {
		resolveCaller = func(context.Context) *booking.Caller { return nil }
	}

	bookingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Booking",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"fullName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*booking.Booking).FullName, nil
				},
			},
			"serviceCategory": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*booking.Booking).ServiceCategory.Label(), nil
				},
			},
			"serviceSubtype": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					b := p.Source.(*booking.Booking)
					if b.ServiceSubtype == "" {
						return nil, nil
					}
					return b.ServiceSubtype.Label(), nil
				},
			},
			"requestedDate": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*booking.Booking).RequestedDate, nil
				},
			},
			"requestedTime": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*booking.Booking).RequestedTime, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*booking.Booking).Status.Label(), nil
				},
			},
			"doctorName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					b := p.Source.(*booking.Booking)
					if b.DoctorName == "" {
						return nil, nil
					}
					return b.DoctorName, nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"bookings": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookingType))),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					status, _ := p.Args["status"].(string)
					return svc.List(p.Context, resolveCaller(p.Context), status)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createBooking": &graphql.Field{
				Type: graphql.NewNonNull(bookingType),
				Args: graphql.FieldConfigArgument{
					"fullName":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"dateOfBirth":     &graphql.ArgumentConfig{Type: graphql.String},
					"gender":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"address":         &graphql.ArgumentConfig{Type: graphql.String},
					"serviceCategory": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"serviceSubtype":  &graphql.ArgumentConfig{Type: graphql.String},
					"requestedDate":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"requestedTime":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"note":            &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := &booking.CreateBookingRequest{
						FullName:        stringArg(p.Args, "fullName"),
						DateOfBirth:     stringArg(p.Args, "dateOfBirth"),
						Gender:          stringArg(p.Args, "gender"),
						Phone:           stringArg(p.Args, "phone"),
						Address:         stringArg(p.Args, "address"),
						ServiceCategory: stringArg(p.Args, "serviceCategory"),
						ServiceSubtype:  stringArg(p.Args, "serviceSubtype"),
						RequestedDate:   stringArg(p.Args, "requestedDate"),
						RequestedTime:   stringArg(p.Args, "requestedTime"),
						Note:            stringArg(p.Args, "note"),
					}
					return svc.Create(p.Context, req, resolveCaller(p.Context))
				},
			},
			"updateBookingStatus": &graphql.Field{
				Type: graphql.NewNonNull(bookingType),
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"status":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"doctorName":  &graphql.ArgumentConfig{Type: graphql.String},
					"doctorEmail": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, ok := p.Args["id"].(int)
					if !ok {
						return nil, fmt.Errorf("id must be an integer")
					}
					req := &booking.TransitionRequest{
						Status:      stringArg(p.Args, "status"),
						DoctorName:  stringArg(p.Args, "doctorName"),
						DoctorEmail: stringArg(p.Args, "doctorEmail"),
					}
					return svc.Transition(p.Context, resolveCaller(p.Context), int64(id), req)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
