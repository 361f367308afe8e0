package models

// Ownership describes how a row is tied to the user who owns it.
// Child rows also name their parent so both owners can be checked.
type Ownership struct {
	Table       string
	OwnerColumn string
	Entity      string

	ParentTable       string
	ParentForeignKey  string
	ParentOwnerColumn string
}

// Owned is implemented by every user-scoped model.
type Owned interface {
	Ownership() Ownership
}
