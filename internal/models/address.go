package models

// Address is a named geographic point stored by the service.
type Address struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AddressRequest is the body accepted when creating or updating an address.
// Fields are pointers so that an explicit zero value ("" or 0) is distinguishable from a missing field.
type AddressRequest struct {
	Name      *string  `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// DistanceQuery holds the query parameters of a distance search.
type DistanceQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `form:"longitude" binding:"required,min=-180,max=180"`
	Distance  *float64 `form:"distance" binding:"required"`
}
