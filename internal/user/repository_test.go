package user

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterToBSONEscapesSearch(t *testing.T) {
	repo := &MongoRepository{}
	query := repo.filterToBSON(ListFilter{Search: ".*@example\\.com"})

	or, ok := query["$or"].(bson.A)
	if !ok || len(or) == 0 {
		t.Fatalf("expected $or clauses, got %v", query)
	}
	for _, clause := range or {
		for field, v := range clause.(bson.M) {
			re, ok := v.(primitive.Regex)
			if !ok {
				t.Fatalf("field %s: expected a regex value, got %T", field, v)
			}
			if re.Pattern != `\.\*@example\\\.com` {
				t.Fatalf("field %s: search term not escaped: %q", field, re.Pattern)
			}
		}
	}
}
