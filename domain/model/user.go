package model

import "go.mongodb.org/mongo-driver/v2/bson"

// OwnerStub is the narrow projection of an account joined into video responses.
// The users collection itself is owned by the account service; this backend
// only ever reads these five fields.
type OwnerStub struct {
	ID       bson.ObjectID `bson:"_id" json:"id"`
	Username string        `bson:"username" json:"username"`
	FullName string        `bson:"full_name" json:"full_name"`
	Email    string        `bson:"email" json:"email"`
	Avatar   string        `bson:"avatar" json:"avatar"`
}
