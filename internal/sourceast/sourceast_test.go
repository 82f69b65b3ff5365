package sourceast

import "testing"

const sampleSource = `package convert

func Update(g Plotter, car Entity, world Entity) {
	car["position"].x = car["position"].x + 1
}
`

func TestParseAndFindConvertFunc(t *testing.T) {
	f, err := Parse("sample.go", sampleSource)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn, err := ConvertFunc(f)
	if err != nil {
		t.Fatalf("unexpected error finding convert func: %v", err)
	}
	if fn.Name.Name != "Update" {
		t.Errorf("got function name %q, want Update", fn.Name.Name)
	}
}

func TestConvertFuncRejectsMultipleDecls(t *testing.T) {
	src := `package convert

func Update(g Plotter) {}
func Other(g Plotter) {}
`
	f, err := Parse("sample.go", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := ConvertFunc(f); err == nil {
		t.Error("expected UnsupportedInputError for multiple top-level functions")
	}
}

func TestParseRejectsInvalidGo(t *testing.T) {
	if _, err := Parse("bad.go", "this is not go source{{{"); err == nil {
		t.Error("expected a parse error")
	}
}

func TestPrintRoundTrips(t *testing.T) {
	f, err := Parse("sample.go", sampleSource)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	out, err := Print(f)
	if err != nil {
		t.Fatalf("unexpected print error: %v", err)
	}
	if out == "" {
		t.Error("expected non-empty printed source")
	}
}
