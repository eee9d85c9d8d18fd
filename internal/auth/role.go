package auth

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTrainer Role = "TRAINER"
	RoleTrainee Role = "TRAINEE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleTrainee:
		return true
	}
	return false
}

// Assignable reports whether an admin may create a user with this role.
func (r Role) Assignable() bool {
	return r == RoleTrainer || r == RoleTrainee
}

func (r Role) String() string {
	return string(r)
}
