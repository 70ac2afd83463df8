// Package registeruser implements the "Register User" use case following Vertical Feature Slice architecture.
//
// Name and email are required and the email must not be registered yet; both are checked against
// user_lookups before any transaction is opened. The handler returns the new user id.
package registeruser
