package domain

//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

// SourceType tags the platform a posting or channel came from
// ENUM(telegram,facebook,google,other)
type SourceType string
