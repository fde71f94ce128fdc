package models

// Profile holds the editable public details of a registered user,
// one-to-one with User. Image is a path under the public directory;
// replacing it deletes the previous blob.
type Profile struct {
	UserID string `json:"userId"`
	Bio    string `json:"bio,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Image  string `json:"image,omitempty"`
}
