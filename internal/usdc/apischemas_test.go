package usdc

import (
	"testing"

	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/value"
)

func TestToAPISchemasExplicit(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	op := value.NewExplicitListOp([]value.Token{"MaterialBindingAPI", "SkelBindingAPI"})

	schemas, err := r.toAPISchemas(op)
	if err != nil {
		t.Fatalf("toAPISchemas: %v", err)
	}
	if schemas.Qual != value.ListEditResetToExplicit {
		t.Errorf("qual = %v", schemas.Qual)
	}
	if len(schemas.Names) != 2 ||
		schemas.Names[0].Name != scene.APIMaterialBindingAPI ||
		schemas.Names[1].Name != scene.APISkelBindingAPI {
		t.Errorf("names = %+v", schemas.Names)
	}
}

func TestToAPISchemasIdempotentThroughExplicit(t *testing.T) {
	// An op using exactly the explicit bucket decodes to ResetToExplicit
	// and re-validates to the same result.
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	op := value.ListOp[value.Token]{ExplicitItems: []value.Token{"Preliminary_AnchoringAPI"}}

	first, err := r.toAPISchemas(op)
	if err != nil {
		t.Fatalf("toAPISchemas: %v", err)
	}
	second, err := r.toAPISchemas(op)
	if err != nil {
		t.Fatalf("toAPISchemas: %v", err)
	}
	if first.Qual != second.Qual || len(first.Names) != len(second.Names) || first.Names[0] != second.Names[0] {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if first.Qual != value.ListEditResetToExplicit {
		t.Errorf("qual = %v", first.Qual)
	}
}

func TestToAPISchemasSingleEditBucket(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	op := value.ListOp[value.Token]{PrependedItems: []value.Token{"Preliminary_PhysicsColliderAPI"}}

	schemas, err := r.toAPISchemas(op)
	if err != nil {
		t.Fatalf("toAPISchemas: %v", err)
	}
	if schemas.Qual != value.ListEditPrepend {
		t.Errorf("qual = %v", schemas.Qual)
	}
}

func TestToAPISchemasMultiQualifier(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	op := value.ListOp[value.Token]{
		AddedItems:    []value.Token{"MaterialBindingAPI"},
		AppendedItems: []value.Token{"SkelBindingAPI"},
	}

	_, err := r.toAPISchemas(op)
	if err == nil {
		t.Fatal("two non-empty buckets must fail")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindListOpMultiQualifier {
		t.Errorf("err = %v", err)
	}
}

func TestToAPISchemasOrderUnsupported(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	op := value.ListOp[value.Token]{OrderedItems: []value.Token{"MaterialBindingAPI"}}

	_, err := r.toAPISchemas(op)
	if err == nil {
		t.Fatal("order bucket must fail")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindListOpUnsupported {
		t.Errorf("err = %v", err)
	}
}

func TestToAPISchemasUnknownSchema(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	op := value.NewExplicitListOp([]value.Token{"GlitterAPI"})

	_, err := r.toAPISchemas(op)
	if err == nil {
		t.Fatal("unknown schema must fail")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindInvalidEnumToken {
		t.Errorf("err = %v", err)
	}
}

func TestAPINameRoundTrip(t *testing.T) {
	names := []scene.APIName{
		scene.APIMaterialBindingAPI,
		scene.APISkelBindingAPI,
		scene.APIPreliminaryAnchoringAPI,
		scene.APIPreliminaryPhysicsColliderAPI,
		scene.APIPreliminaryPhysicsMaterialAPI,
		scene.APIPreliminaryPhysicsRigidBodyAPI,
	}
	for _, n := range names {
		got, ok := scene.APINameFromToken(n.String())
		if !ok || got != n {
			t.Errorf("api name %v did not round-trip: got %v, ok=%v", n, got, ok)
		}
	}
}
