// Package utils provides small helpers shared across features: email
// normalisation, optional-string handling and query flag parsing.
package utils
