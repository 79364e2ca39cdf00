package lesson

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonforge/internal/cefr"
)

func validRequest() Request {
	return Request{
		SourceText:     strings.Repeat("Climate change is accelerating across the globe. ", 10),
		LessonType:     TypeDiscussion,
		Level:          cefr.B1,
		TargetLanguage: "English",
	}
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	tests := []struct {
		name  string
		mut   func(*Request)
		field string
	}{
		{"missing text", func(r *Request) { r.SourceText = "" }, "source_text"},
		{"short text", func(r *Request) { r.SourceText = "Too short." }, "source_text"},
		{"missing type", func(r *Request) { r.LessonType = "" }, "lesson_type"},
		{"unknown type", func(r *Request) { r.LessonType = "cooking" }, "lesson_type"},
		{"missing level", func(r *Request) { r.Level = "" }, "level"},
		{"unknown level", func(r *Request) { r.Level = "C2" }, "level"},
		{"missing language", func(r *Request) { r.TargetLanguage = "" }, "target_language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mut(&r)
			err := r.Validate()
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.field, reqErr.Field)
		})
	}
}

func TestRequestNormalize(t *testing.T) {
	r := validRequest()
	r.Level = " b2 "
	r.LessonType = "Travel "
	r.TargetLanguage = " Spanish "
	n := r.Normalize()
	assert.Equal(t, cefr.B2, n.Level)
	assert.Equal(t, TypeTravel, n.LessonType)
	assert.Equal(t, "Spanish", n.TargetLanguage)
	require.NoError(t, n.Validate())
}

func TestExtractionValidate(t *testing.T) {
	var nilExt *Extraction
	assert.NoError(t, nilExt.Validate())
	assert.NoError(t, (&Extraction{Text: "x"}).Validate())
	assert.Error(t, (&Extraction{SourceURL: "not a url"}).Validate())
}

func TestPlans(t *testing.T) {
	for _, typ := range []Type{TypeDiscussion, TypeGrammar, TypeVocabulary, TypePronunciation, TypeTravel, TypeBusiness, TypeGeneral} {
		plan := typ.Plan()
		require.NotEmpty(t, plan, typ)
		assert.Equal(t, KindTitle, plan[len(plan)-1], "%s: title is generated last", typ)

		// Plans follow the global generation order.
		last := -1
		for _, k := range plan {
			idx := indexOf(GenerationOrder, k)
			require.GreaterOrEqual(t, idx, 0)
			assert.Greater(t, idx, last, "%s: %s out of order", typ, k)
			last = idx
		}
	}
	assert.Equal(t, GenerationOrder, TypeGeneral.Plan())
	assert.Contains(t, TypeDiscussion.Plan(), KindDiscussion)
}

func TestDialogueRoles(t *testing.T) {
	opener, partner := TypeTravel.DialogueRoles()
	assert.Equal(t, "Traveler", opener)
	assert.Equal(t, "Local", partner)
	opener, _ = Type("unknown").DialogueRoles()
	assert.Equal(t, "Host", opener)
}

func indexOf(ks []Kind, k Kind) int {
	for i, v := range ks {
		if v == k {
			return i
		}
	}
	return -1
}

func TestSectionsOrderAndReplace(t *testing.T) {
	var ss Sections
	ss.Set(WarmUp{Questions: []string{"a?"}})
	ss.Set(Discussion{Questions: []string{"b?"}})
	ss.Set(WarmUp{Questions: []string{"c?"}})

	assert.Equal(t, []Kind{KindWarmUp, KindDiscussion}, ss.Kinds())
	s, ok := ss.Get(KindWarmUp)
	require.True(t, ok)
	assert.Equal(t, []string{"c?"}, s.(WarmUp).Questions)
	assert.Equal(t, 2, ss.Len())
}

func TestDialogueKindFollowsVariant(t *testing.T) {
	assert.Equal(t, KindDialoguePractice, Dialogue{Variant: VariantPractice}.Kind())
	assert.Equal(t, KindDialogueFillGap, Dialogue{Variant: VariantFillGap}.Kind())

	var ss Sections
	ss.Set(Dialogue{Variant: VariantPractice})
	ss.Set(Dialogue{Variant: VariantFillGap})
	assert.Equal(t, 2, ss.Len())
}

func TestLessonJSONRoundTrip(t *testing.T) {
	var ss Sections
	ss.Set(WarmUp{Questions: []string{"Do you recycle?"}})
	ss.Set(Vocabulary{Entries: []VocabEntry{{Word: "emission", Definition: "gas sent into the air", Examples: []string{"Emissions rose."}}}})
	ss.Set(Dialogue{
		Variant:    VariantFillGap,
		Characters: []Character{{Name: "Ana", Role: "Host"}},
		Lines:      []DialogueLine{{Speaker: "Ana", Text: "We need to cut ___.", Gapped: true}},
		AnswerKey:  []string{"emissions"},
	})
	ss.Set(Title{Text: "Climate Talk", Source: TitleFromAI})

	in := Lesson{
		ID:             "id-1",
		FormatVersion:  FormatVersion,
		LessonType:     TypeDiscussion,
		Level:          cefr.B1,
		TargetLanguage: "English",
		Title:          "Climate Talk",
		Sections:       ss,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"dialogue_fill_gap"`)
	assert.Contains(t, string(data), `"dialogue_fill_gap":{`)

	var out Lesson
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Sections.Kinds(), out.Sections.Kinds())
	d, ok := out.Sections.Get(KindDialogueFillGap)
	require.True(t, ok)
	assert.Equal(t, 1, d.(Dialogue).GapCount())
	assert.Equal(t, "Host", d.(Dialogue).RoleOf("Ana"))
}

func TestSectionsUnmarshalRejectsUnknownKind(t *testing.T) {
	var ss Sections
	err := json.Unmarshal([]byte(`[{"kind":"quiz","quiz":{}}]`), &ss)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`[{"kind":"dialogue_practice","dialogue_practice":{"variant":"fill_gap"}}]`), &ss)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`[{"kind":"warm_up"}]`), &ss)
	assert.Error(t, err)
}

func TestProvenanceFrom(t *testing.T) {
	assert.Nil(t, ProvenanceFrom(nil))
	assert.Nil(t, ProvenanceFrom(&Extraction{Text: "x", Title: "t"}))
	p := ProvenanceFrom(&Extraction{SourceURL: "https://news.example/a", Domain: "news.example"})
	require.NotNil(t, p)
	assert.Equal(t, "news.example", p.Domain)
}
