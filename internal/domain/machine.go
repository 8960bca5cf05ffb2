package domain

// Machine is a printing machine that orders can be assigned to.
type Machine struct {
	ID                    string   `yaml:"id" json:"id"`
	Name                  string   `yaml:"name" json:"name"`
	Aliases               []string `yaml:"aliases" json:"aliases,omitempty"`
	CountsAgainstCapacity bool     `yaml:"counts_against_capacity" json:"countsAgainstCapacity"`
}

// DefaultMachines is the plant's machine park. GIAVE runs on its own budget
// and does not consume the shared weekly capacity.
func DefaultMachines() []Machine {
	return []Machine{
		{ID: "wm1", Name: "WM1", Aliases: []string{"Windmöller 1", "WH-1", "IMPRESION_WM1"}, CountsAgainstCapacity: true},
		{ID: "wm3", Name: "WM3", Aliases: []string{"Windmöller 3", "WH-3", "IMPRESION_WM3"}, CountsAgainstCapacity: true},
		{ID: "giave", Name: "GIAVE", Aliases: []string{"SUP GIAVE", "IMPRESION_GIAVE"}},
	}
}
