package graph

import (
	"fmt"
)

// ISBN is the schema's ISBN scalar. It carries the string unchanged; format
// checks happen during input validation.
type ISBN string

func (ISBN) ImplementsGraphQLType(name string) bool {
	return name == "ISBN"
}

func (i *ISBN) UnmarshalGraphQL(input interface{}) error {
	s, ok := input.(string)
	if !ok {
		return fmt.Errorf("ISBN: expected a String, got %T", input)
	}
	*i = ISBN(s)
	return nil
}

func (i ISBN) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(i))
}
