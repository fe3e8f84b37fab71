package component

type VehicleTag struct{}

var VehicleTagComponent = NewComponent[VehicleTag]()

type GroundTag struct{}

var GroundTagComponent = NewComponent[GroundTag]()

// Name is a human-readable label, used in logs.
type Name string

var NameComponent = NewComponent[Name]()
