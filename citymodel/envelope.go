package citymodel

import (
	"math"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// Envelope is an axis aligned bounding box with an optional SRS name.
type Envelope struct {
	Lower   dvec3.T
	Upper   dvec3.T
	SRSName string
}

// NewEnvelope returns an envelope with NaN bounds, which is not valid until
// both corners are set.
func NewEnvelope(srsName string) *Envelope {
	nan := math.NaN()
	return &Envelope{
		Lower:   dvec3.T{nan, nan, nan},
		Upper:   dvec3.T{nan, nan, nan},
		SRSName: srsName,
	}
}

// Valid reports whether neither bound contains NaN.
func (e *Envelope) Valid() bool {
	if e == nil {
		return false
	}
	for i := 0; i < 3; i++ {
		if math.IsNaN(e.Lower[i]) || math.IsNaN(e.Upper[i]) {
			return false
		}
	}
	return true
}

// Box returns the bounds as a go3d box.
func (e *Envelope) Box() dvec3.Box {
	return dvec3.Box{Min: e.Lower, Max: e.Upper}
}

// Extend grows the envelope to contain p. An invalid envelope collapses
// onto p first.
func (e *Envelope) Extend(p dvec3.T) {
	if !e.Valid() {
		e.Lower, e.Upper = p, p
		return
	}
	box := e.Box()
	box.Extend(&p)
	e.Lower, e.Upper = box.Min, box.Max
}

// Address is a postal address in the xAL subset used by CityGML.
type Address struct {
	Object

	Country      string
	Locality     string
	PostalCode   string
	ThoroughFare string
	HouseNumber  string
	AdminArea    string
	SubAdminArea string
	Premise      string
	AddressLines []string
	Position     *dvec3.T
}

func NewAddress(id string) *Address {
	return &Address{Object: newObject(id)}
}

// ExternalReference links a city object to an entry of another information
// system.
type ExternalReference struct {
	Object

	InformationSystem string
	// ObjectName and ObjectURI are alternatives.
	ObjectName string
	ObjectURI  string
}

func NewExternalReference(id string) *ExternalReference {
	return &ExternalReference{Object: newObject(id)}
}
