package core

// Instead of implementing full value objects, I'm using some alias types here ...

// BasketIDString represents a basket identifier
type BasketIDString = string

// UserIDString represents a user identifier
type UserIDString = string

// TeamIDString represents a team identifier
type TeamIDString = string

// ProductIDString represents a product identifier
type ProductIDString = string
