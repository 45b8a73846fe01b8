package model

// Area is a top-level academic track with its own subject rubric.
type Area string

const (
	AreaEngineering Area = "Ingenierías"
	AreaSocial      Area = "Sociales"
	AreaBiomedical  Area = "Biomédicas"
)

// Areas lists every known track in display order.
var Areas = []Area{AreaEngineering, AreaSocial, AreaBiomedical}

// Valid reports whether a is one of the known tracks.
func (a Area) Valid() bool {
	for _, known := range Areas {
		if a == known {
			return true
		}
	}
	return false
}

// Student identifies the person taking one attempt.
type Student struct {
	DNI      string `json:"dni" validate:"required,dni"`
	FullName string `json:"fullName" validate:"required,fullname"`
	Area     Area   `json:"area" validate:"required,area"`
}

// Registration is the payload for registering a user with the remote store.
type Registration struct {
	DNI         string `json:"dni" validate:"required,dni"`
	FullName    string `json:"fullName" validate:"required,fullname"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=6,max=15"`
	ProcessType string `json:"processType" validate:"required,oneof=CEPREUNA GENERAL EXTRAORDINARIO"`
	Area        Area   `json:"area" validate:"required,area"`
	Career      string `json:"career" validate:"required,min=2,max=100"`
}
