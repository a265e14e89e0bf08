package schemawire

import "fmt"

// AcceptIDs returns an Options.Accept func admitting only the listed schema ids.
func AcceptIDs(ids ...int32) func(SchemaRef) error {
	allowed := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	return func(ref SchemaRef) error {
		if _, ok := allowed[ref.ID]; !ok {
			return fmt.Errorf("schema id %d not accepted", ref.ID)
		}
		return nil
	}
}
