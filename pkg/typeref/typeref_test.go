package typeref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors/descriptorstest"
	"github.com/SpineEventEngine/base-sub010/pkg/typeref"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  typeref.Kind
		value string
	}{
		{"empty is self", "", typeref.KindSelf, ""},
		{"blank is self", "  ", typeref.KindSelf, ""},
		{"context", "context", typeref.KindEventContext, "context"},
		{"wildcard", "*", typeref.KindAll, "*"},
		{"in package", "spine.base.*", typeref.KindInPackage, "spine.base.*"},
		{"simple name", "ProjectCreated", typeref.KindDirect, "ProjectCreated"},
		{"qualified name", "acme.sales.ProjectCreated", typeref.KindDirect, "acme.sales.ProjectCreated"},
		{"trimmed", "  ProjectCreated ", typeref.KindDirect, "ProjectCreated"},
		{"composite", "Foo,Bar", typeref.KindComposite, "Foo,Bar"},
		{"composite with spaces", " Foo , acme.* ", typeref.KindComposite, "Foo,acme.*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := typeref.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ref.Kind())
			assert.Equal(t, tt.value, ref.Value())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"package wildcard alone", ".*"},
		{"suffix wildcard", "*CommonSuffix"},
		{"suffix wildcard with field", "*CommonSuffix.field"},
		{"inner wildcard", "acme.*.Foo"},
		{"empty segment", "acme..Foo"},
		{"trailing comma", "Foo,"},
		{"duplicate composite", "Foo,Foo"},
		{"space inside", "Foo Bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := typeref.Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, typeref.ErrInvalidReference)

			var refErr *typeref.InvalidReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.raw, refErr.Raw)
		})
	}
}

func TestParse_DirectRoundTrip(t *testing.T) {
	for _, s := range []string{"A", "ProjectId", "Project_Id2", "x"} {
		ref, err := typeref.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, typeref.KindDirect, ref.Kind())
		assert.Equal(t, s, ref.Value())
	}
}

func TestInPackage_Matches(t *testing.T) {
	set := descriptorstest.FileSet(t)
	ref := typeref.MustParse("acme.sales.*")

	assert.Equal(t, "acme.sales", ref.Package())
	assert.True(t, ref.Matches(descriptorstest.Message(t, set, "acme.sales.ProjectCreated").Desc))
	assert.True(t, ref.Matches(descriptorstest.Message(t, set, "acme.sales.ProjectCreated.Inner").Desc))
	assert.False(t, ref.Matches(descriptorstest.Message(t, set, "acme.sales.nested.Audit").Desc))
	assert.False(t, ref.Matches(descriptorstest.Message(t, set, "spine.core.EventContext").Desc))
}

func TestDirect_Matches(t *testing.T) {
	set := descriptorstest.FileSet(t)
	created := descriptorstest.Message(t, set, "acme.sales.ProjectCreated").Desc
	renamed := descriptorstest.Message(t, set, "acme.sales.ProjectRenamed").Desc

	assert.True(t, typeref.MustParse("ProjectCreated").Matches(created))
	assert.True(t, typeref.MustParse("acme.sales.ProjectCreated").Matches(created))
	assert.False(t, typeref.MustParse("ProjectCreated").Matches(renamed))

	// The package part is not enforced.
	assert.True(t, typeref.MustParse("other.ProjectCreated").Matches(created))
}

func TestBuiltIn_Matches(t *testing.T) {
	set := descriptorstest.FileSet(t)
	created := descriptorstest.Message(t, set, "acme.sales.ProjectCreated").Desc
	renamed := descriptorstest.Message(t, set, "acme.sales.ProjectRenamed").Desc
	context := descriptorstest.Message(t, set, "spine.core.EventContext").Desc

	assert.True(t, typeref.EventContext().Matches(context))
	assert.False(t, typeref.EventContext().Matches(created))

	assert.True(t, typeref.All().Matches(created))
	assert.True(t, typeref.All().Matches(context))

	assert.False(t, typeref.Self().Matches(created))
	assert.True(t, typeref.Self().MatchesFrom(created, created))
	assert.False(t, typeref.Self().MatchesFrom(created, renamed))
}

func TestComposite_OrSemantics(t *testing.T) {
	set := descriptorstest.FileSet(t)
	foo := typeref.MustParse("ProjectCreated")
	bar := typeref.MustParse("acme.sales.nested.*")
	both := typeref.MustParse("ProjectCreated,acme.sales.nested.*")

	require.Equal(t, typeref.KindComposite, both.Kind())
	assert.Len(t, both.Elements(), 2)

	for _, msg := range set.AllMessages() {
		want := foo.Matches(msg.Desc) || bar.Matches(msg.Desc)
		assert.Equal(t, want, both.Matches(msg.Desc), msg.FullName())
	}
}

func TestNewComposite(t *testing.T) {
	foo := typeref.MustParse("Foo")
	bar := typeref.MustParse("Bar")

	_, err := typeref.NewComposite(foo)
	assert.ErrorIs(t, err, typeref.ErrCompositeTooSmall)

	_, err = typeref.NewComposite(foo, foo)
	assert.ErrorIs(t, err, typeref.ErrCompositeTooSmall)

	ref, err := typeref.NewComposite(foo, bar, foo)
	require.NoError(t, err)
	assert.Equal(t, "Foo,Bar", ref.Value())

	flat, err := typeref.NewComposite(ref, typeref.EventContext())
	require.NoError(t, err)
	assert.Equal(t, "Foo,Bar,context", flat.Value())
	assert.True(t, flat.Equal(typeref.MustParse("Foo, Bar, context")))
}

func TestConstructors(t *testing.T) {
	ref, err := typeref.InPackage("spine.base")
	require.NoError(t, err)
	assert.Equal(t, "spine.base.*", ref.String())

	_, err = typeref.InPackage("")
	assert.ErrorIs(t, err, typeref.ErrInvalidReference)

	_, err = typeref.Direct("Foo*")
	assert.ErrorIs(t, err, typeref.ErrInvalidReference)
}
