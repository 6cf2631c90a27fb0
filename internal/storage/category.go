package storage

// Category is one of the upload kinds. Its string value is used both as the
// URL segment of the typed download endpoint and as the prefix of stored
// references.
type Category string

const (
	CategoryResources           Category = "resources"
	CategoryQuestionAttachments Category = "question-attachments"
	CategoryAnswerAttachments   Category = "answer-attachments"
)

// ScanOrder is the order in which category roots are searched when a
// reference does not name its category.
var ScanOrder = []Category{
	CategoryResources,
	CategoryQuestionAttachments,
	CategoryAnswerAttachments,
}

// ParseCategory maps a URL segment or reference prefix to a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range ScanOrder {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string { return string(c) }
