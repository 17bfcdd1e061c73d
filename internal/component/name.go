package component

// Name labels an entity for scene files, scripts and logs.
type Name struct {
	Value string
}
