// Package domain holds the study-group entities and the validation rules that
// decide whether a user, a group or a message may exist, and whether a
// membership change is allowed.
package domain
