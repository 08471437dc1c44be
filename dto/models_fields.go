package dto

// Field is one entry of an ordered mapping.
type Field struct {
	Key   string
	Value any
}

// Fields is a mapping that keeps insertion order when serialized.
type Fields []Field

// Set replaces the value of an existing key or appends a new one.
func (f Fields) Set(key string, value any) Fields {
	for i := range f {
		if f[i].Key == key {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Key: key, Value: value})
}

// File is one selected file of a file input.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// FileInput is a file-bearing form element. An empty Name gets a generated
// file_<index> field name.
type FileInput struct {
	Name  string
	Files []File
}
