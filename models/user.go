package models

// User is the account record consulted by the auth middleware. Account
// lifecycle itself is delegated to the identity provider; this service only
// reads the stored credential hash.
type User struct {
	ID       string `bson:"_id,omitempty" json:"id,omitempty"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"`
	Role     string `bson:"role" json:"role"`
}
