package citygml

import (
	"strconv"
	"strings"
	"testing"
)

func TestUpsertRecordsQuery(t *testing.T) {
	batch := []ObjectRecord{
		{ObjectID: "b1", Source: "a.gml", Kind: "Building", LOD: 2, Polygons: 2, Tile: "15/1/2"},
		{ObjectID: "b2", Source: "a.gml", Kind: "Building", LOD: 1, Polygons: 1, Tile: "15/1/3"},
	}

	query, args := upsertRecordsQuery(batch)

	if len(args) != len(batch)*recordColumns {
		t.Fatalf("arg count mismatch: got %d, expected %d", len(args), len(batch)*recordColumns)
	}
	if args[0] != "b1" || args[recordColumns] != "b2" {
		t.Errorf("row order mismatch: got %v and %v, expected b1 and b2", args[0], args[recordColumns])
	}
	if args[recordColumns-1] != "15/1/2" {
		t.Errorf("last column mismatch: got %v, expected 15/1/2", args[recordColumns-1])
	}

	last := "$" + strconv.Itoa(len(args))
	if !strings.Contains(query, last+", NOW(), NOW())") {
		t.Errorf("expected the last placeholder %s to close the second row", last)
	}
	if strings.Contains(query, "$"+strconv.Itoa(len(args)+1)) {
		t.Errorf("query references more placeholders than args")
	}
	if !strings.Contains(query, `ON CONFLICT ("objectId", source)`) {
		t.Errorf("expected an upsert on object id and source")
	}
}

