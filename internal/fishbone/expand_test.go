package fishbone

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"fishbone/internal/llm"
)

func expandState(causes map[string][]string, categories []string) *State {
	return &State{Effect: "Server crashes under load", Categories: categories, Causes: causes}
}

func TestExpand_ShortCircuitsWithoutCauses(t *testing.T) {
	fake := llm.NewFakeClient(`{"should": ["not be used"]}`)
	st := expandState(map[string][]string{"Machine": {}, "Method": {}}, []string{"Machine", "Method"})
	NewExpandStage(fake, Config{}).Run(context.Background(), st)

	if fake.Calls() != 0 {
		t.Fatalf("generator invoked %d times, want 0", fake.Calls())
	}
	if st.RootCauses == nil || len(st.RootCauses) != 0 {
		t.Fatalf("root causes = %v, want empty map", st.RootCauses)
	}
}

func TestExpand_OrganizesPerPair(t *testing.T) {
	fake := llm.NewFakeClient(`{
		"Machine:Overheating": ["Poor airflow"],
		"Machine:Faulty RAM": [],
		"Method:No load testing": ["Missing CI gate", "No perf budget"]
	}`)
	st := expandState(map[string][]string{
		"Machine": {"Overheating", "Faulty RAM"},
		"Method":  {"No load testing"},
	}, []string{"Machine", "Method"})
	NewExpandStage(fake, Config{}).Run(context.Background(), st)

	want := map[string]map[string][]string{
		"Machine": {"Overheating": {"Poor airflow"}, "Faulty RAM": {}},
		"Method":  {"No load testing": {"Missing CI gate", "No perf budget"}},
	}
	if !reflect.DeepEqual(st.RootCauses, want) {
		t.Fatalf("root causes = %v, want %v", st.RootCauses, want)
	}
}

func TestExpand_MissingKeyGetsEmptyList(t *testing.T) {
	fake := llm.NewFakeClient(`{"Machine:Overheating": ["Poor airflow"], "Stray:key": ["ignored"]}`)
	st := expandState(map[string][]string{"Machine": {"Overheating", "Faulty RAM"}}, []string{"Machine"})
	NewExpandStage(fake, Config{}).Run(context.Background(), st)

	want := map[string]map[string][]string{
		"Machine": {"Overheating": {"Poor airflow"}, "Faulty RAM": {}},
	}
	if !reflect.DeepEqual(st.RootCauses, want) {
		t.Fatalf("root causes = %v, want %v", st.RootCauses, want)
	}
}

func TestExpand_TrimsAndTruncates(t *testing.T) {
	fake := llm.NewFakeClient(`{"Machine:Overheating": [" a ", "", "b", "c", "d"]}`)
	st := expandState(map[string][]string{"Machine": {"Overheating"}}, []string{"Machine"})
	NewExpandStage(fake, Config{}).Run(context.Background(), st)

	if got := st.RootCauses["Machine"]["Overheating"]; !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestExpand_GeneratorFailureResetsWholeStage(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Err = errors.New("quota exceeded")
	st := expandState(map[string][]string{"Machine": {"Overheating"}}, []string{"Machine"})
	NewExpandStage(fake, Config{}).Run(context.Background(), st)

	if len(st.RootCauses) != 0 {
		t.Fatalf("root causes = %v, want global reset to empty", st.RootCauses)
	}
}

func TestExpand_MalformedResponseResetsWholeStage(t *testing.T) {
	fake := llm.NewFakeClient("```json\n{broken\n```")
	st := expandState(map[string][]string{"Machine": {"Overheating"}}, []string{"Machine"})
	NewExpandStage(fake, Config{}).Run(context.Background(), st)

	if len(st.RootCauses) != 0 {
		t.Fatalf("root causes = %v, want global reset to empty", st.RootCauses)
	}
}

func TestExpand_PromptListsPairsInCategoryOrder(t *testing.T) {
	stage := NewExpandStage(llm.NewFakeClient(), Config{})
	st := expandState(map[string][]string{
		"Method":  {"No load testing"},
		"Machine": {"Overheating", "Faulty RAM"},
	}, []string{"Machine", "Method"})

	msgs := stage.prompt(st)
	if len(msgs) != 2 {
		t.Fatalf("unexpected prompt shape: %+v", msgs)
	}
	user := msgs[1].Content
	a := strings.Index(user, `"Machine:Overheating"`)
	b := strings.Index(user, `"Machine:Faulty RAM"`)
	c := strings.Index(user, `"Method:No load testing"`)
	if a < 0 || b < 0 || c < 0 || !(a < b && b < c) {
		t.Fatalf("pair tokens missing or out of order (%d, %d, %d):\n%s", a, b, c, user)
	}
}
