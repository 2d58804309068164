// Package profile holds the profile picture a user picks while signing up.
//
// A Picture is kept in memory until the signup form is submitted. It can be
// built from raw bytes, an uploaded multipart file, or a file on disk:
//
//	pic, err := profile.Load("me.png", profile.DefaultMaxBytes)
//	if errors.IsCode(err, errors.ErrCodeFileTooLarge) {
//		// ask for a smaller picture
//	}
//
// The content type is taken from the upload when it is specific, otherwise
// from the file extension, otherwise sniffed from the data.
package profile
