package emergency

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"smartcampus/models"
)

// DangerZone is the area students are told to avoid.
type DangerZone struct {
	Center       models.LatLng `yaml:"center"`
	RadiusMeters float64       `yaml:"radiusMeters"`
	Headline     string        `yaml:"headline"`
	Detail       string        `yaml:"detail"`
}

type Contact struct {
	Title  string `yaml:"title"`
	Number string `yaml:"number"`
}

type Protocol struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Overlay is everything the emergency view shows.
type Overlay struct {
	Zone      DangerZone `yaml:"zone"`
	Contacts  []Contact  `yaml:"contacts"`
	Protocols []Protocol `yaml:"protocols"`
}

// Default returns the built-in overlay centred on center.
func Default(center models.LatLng) Overlay {
	return Overlay{
		Zone: DangerZone{
			Center:       center,
			RadiusMeters: 150,
			Headline:     "Avoid Block A - North Wing",
			Detail:       "Fire alarm triggered 3 minutes ago. Automated sprinkler system active.",
		},
		Contacts: []Contact{
			{Title: "Campus Security", Number: "+91 98765 43210"},
			{Title: "Medical Center", Number: "+91 98765 43211"},
			{Title: "Fire Station", Number: "101"},
			{Title: "Admin Office", Number: "+91 361 1234 567"},
		},
		Protocols: []Protocol{
			{Title: "Fire Safety", Description: "Use stairs, not elevators. Assemble at Point 4."},
			{Title: "Medical", Description: "First aid kits available at all floor desks."},
			{Title: "Security", Description: "Stay indoors if lockdown alarm sounds."},
			{Title: "Evacuation", Description: "Follow illuminated green exit signs."},
		},
	}
}

// Load returns the default overlay with the sections present in the YAML file
// at path replacing their defaults. An empty path yields the defaults.
func Load(path string, center models.LatLng) (Overlay, error) {
	o := Default(center)
	if path == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("emergency: %w", err)
	}
	return Parse(data, o)
}

// Parse applies the YAML document in data on top of base. Zone fields are
// merged one by one; contacts and protocols replace the lists when given.
func Parse(data []byte, base Overlay) (Overlay, error) {
	var doc struct {
		Zone      *yaml.Node `yaml:"zone"`
		Contacts  []Contact  `yaml:"contacts"`
		Protocols []Protocol `yaml:"protocols"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Overlay{}, fmt.Errorf("emergency: parse: %w", err)
	}
	out := base
	if doc.Zone != nil {
		if err := doc.Zone.Decode(&out.Zone); err != nil {
			return Overlay{}, fmt.Errorf("emergency: zone: %w", err)
		}
	}
	if doc.Contacts != nil {
		out.Contacts = doc.Contacts
	}
	if doc.Protocols != nil {
		out.Protocols = doc.Protocols
	}
	if err := out.validate(); err != nil {
		return Overlay{}, err
	}
	return out, nil
}

func (o Overlay) validate() error {
	if o.Zone.RadiusMeters < 0 {
		return fmt.Errorf("emergency: zone radius must not be negative")
	}
	for _, c := range o.Contacts {
		if c.Title == "" || c.Number == "" {
			return fmt.Errorf("emergency: contact needs a title and a number")
		}
	}
	for _, p := range o.Protocols {
		if p.Title == "" {
			return fmt.Errorf("emergency: protocol needs a title")
		}
	}
	return nil
}
