// Package utils provides small helpers shared by the HTTP layer and the
// task client: JSON response writing and identifier generation.
package utils
