package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mark3labs/model2swagger/internal/model"
)

func TestClassify_Primitives(t *testing.T) {
	tests := []struct {
		name string
		d    *model.Descriptor
		want model.Kind
	}{
		{"nil", nil, model.KindNone},
		{"empty shape", &model.Descriptor{}, model.KindNone},
		{"empty alias", model.Alias(""), model.KindNone},
		{"false literal", model.Literal(false), model.KindNone},
		{"zero literal", model.Literal(0), model.KindNone},
		{"native number", model.Native("number"), model.KindNumber},
		{"alias Number", model.Alias("Number"), model.KindNumber},
		{"alias number", model.Alias("number"), model.KindNumber},
		{"alias NUMBER", model.Alias("NUMBER"), model.KindNumber},
		{"native string", model.Native("string"), model.KindString},
		{"alias String", model.Alias("String"), model.KindString},
		{"object id marker", model.ObjectID(), model.KindString},
		{"native boolean", model.Native("boolean"), model.KindBoolean},
		{"alias Boolean", model.Alias("Boolean"), model.KindBoolean},
		{"unknown alias", model.Alias("uuid"), model.KindObject},
		{"truthy literal", model.Literal(42), model.KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.d))
		})
	}
}

func TestClassify_Constructors(t *testing.T) {
	assert.Equal(t, model.KindString, Classify(model.Constructor("ObjectId")))
	assert.Equal(t, model.KindString, Classify(model.Constructor("ObjectID")))
	assert.Equal(t, model.KindString, Classify(model.Constructor("Date")))
	assert.Equal(t, model.Kind("buffer"), Classify(model.Constructor("Buffer")))
	assert.Equal(t, model.Kind("decimal128"), Classify(model.Constructor("Decimal128")))
	assert.False(t, Classify(model.Constructor("Decimal128")).Known())
}

func TestClassify_StrictKindsFoldsEscapeHatch(t *testing.T) {
	c := New(WithStrictKinds(true))
	assert.Equal(t, model.KindObject, c.Classify(model.Constructor("Decimal128")))
	assert.Equal(t, model.KindObject, c.Classify(model.Wrap(model.Constructor("Map"))))
	assert.Equal(t, model.KindString, c.Classify(model.Constructor("Date")))
}

func TestClassify_WrapperIsTransparent(t *testing.T) {
	inner := []*model.Descriptor{
		model.Native("number"),
		model.Alias("string"),
		model.ObjectID(),
		model.Constructor("Date"),
		model.Constructor("Buffer"),
		model.Seq(model.Alias("String")),
		model.Instance("SchemaNumber"),
		model.Object(model.TreeOf(model.F("a", model.Alias("String")))),
		model.Virtual("full"),
	}
	for _, d := range inner {
		assert.Equal(t, Classify(d), Classify(model.Wrap(d)), "shape %s", d.Shape)
		assert.Equal(t, Classify(d), Classify(model.Wrap(model.Wrap(d))), "shape %s", d.Shape)
	}
}

func TestClassify_WrapperTypeTakesPrecedence(t *testing.T) {
	d := model.Wrap(model.Alias("Number"))
	d.Instance = "String"
	assert.Equal(t, model.KindNumber, Classify(d))
}

func TestClassify_InstanceTable(t *testing.T) {
	want := map[string]model.Kind{
		"Array":          model.KindArray,
		"DocumentArray":  model.KindArray,
		"ObjectId":       model.KindString,
		"ObjectID":       model.KindString,
		"SchemaDate":     model.KindString,
		"Mixed":          model.KindObject,
		"String":         model.KindString,
		"SchemaString":   model.KindString,
		"SchemaBuffer":   model.KindString,
		"SchemaObjectId": model.KindString,
		"SchemaArray":    model.KindArray,
		"Boolean":        model.KindBoolean,
		"SchemaBoolean":  model.KindBoolean,
		"Number":         model.KindNumber,
		"SchemaNumber":   model.KindNumber,
	}
	for tag, kind := range want {
		assert.Equal(t, kind, Classify(model.Instance(tag)), "instance %s", tag)
	}
}

func TestClassify_UnknownInstanceFallsThrough(t *testing.T) {
	assert.Equal(t, model.KindObject, Classify(model.Instance("Embedded")))

	virtual := model.Virtual("fullName")
	virtual.Instance = "VirtualType"
	assert.Equal(t, model.KindNone, Classify(virtual))

	withSchemaType := model.Instance("Embedded")
	withSchemaType.SchemaType = &model.Schema{Tree: model.TreeOf(model.F("a", model.Alias("Number")))}
	assert.Equal(t, model.KindObject, Classify(withSchemaType))
}

func TestClassify_SequenceAndVirtual(t *testing.T) {
	assert.Equal(t, model.KindArray, Classify(model.Seq()))
	assert.Equal(t, model.KindArray, Classify(model.Seq(model.Alias("Number"))))
	assert.Equal(t, model.KindNone, Classify(model.Virtual("fullName")))

	// A path without a getter list is data, not a virtual.
	p := "x"
	assert.Equal(t, model.KindObject, Classify(&model.Descriptor{Shape: model.ShapeObject, Path: &p}))
}

func TestClassify_NestedSchemaIsObject(t *testing.T) {
	assert.Equal(t, model.KindObject, Classify(model.Nested(model.TreeOf(model.F("a", model.Alias("String"))))))
	assert.Equal(t, model.KindObject, Classify(model.Object(nil)))
}

func TestClassify_Deterministic(t *testing.T) {
	d := model.Wrap(model.Seq(model.Wrap(model.Constructor("Date"))))
	first := Classify(d)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(d))
	}
}

func TestClassify_CyclicTypeChainStops(t *testing.T) {
	d := &model.Descriptor{Shape: model.ShapeObject}
	d.Type = d
	c := New(WithMaxDepth(8))
	assert.Equal(t, model.KindObject, c.Classify(d))
}

func TestClassify_SchemaTypeTreeWithTypeField(t *testing.T) {
	d := model.Instance("Embedded")
	d.SchemaType = &model.Schema{Tree: model.TreeOf(
		model.F("type", model.Alias("String")),
		model.F("count", model.Alias("Number")),
	)}
	assert.Equal(t, model.KindObject, Classify(d))
	assert.Equal(t, []string{"type", "count"}, New().Build("sub", d).Schema().PropertyNames())
}

func TestIsInstanceTag(t *testing.T) {
	assert.True(t, IsInstanceTag("Array"))
	assert.True(t, IsInstanceTag("SchemaNumber"))
	assert.False(t, IsInstanceTag("String "))
	assert.False(t, IsInstanceTag("Embedded"))
}
