package config

// ServiceAccount holds essential fields from your JSON key
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// DefaultBucketName is used when FIREBASE_BUCKET_NAME is not set.
var DefaultBucketName = "szytadieta.appspot.com"
