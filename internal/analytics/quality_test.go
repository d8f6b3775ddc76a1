package analytics

import (
	"testing"

	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestScoreComponentEmpty(t *testing.T) {
	c := &model.Component{ProductNumber: "P-1"}
	assert.Equal(t, 0, ScoreComponent(c))
}

func TestScoreComponentComplete(t *testing.T) {
	c := &model.Component{
		ProductNumber: "P-1",
		Description:   "Brushed steel zipper pull",
		BrandID:       uintPtr(1),
		CategoryID:    uintPtr(2),
		Keywords: []model.Keyword{
			{Name: "zipper"}, {Name: "metal"}, {Name: "pull"},
		},
		Variants: []model.Variant{
			{Pictures: []model.Picture{{}, {}}},
		},
		Pictures:    []model.Picture{{}},
		ProtoStatus: model.StatusOK,
		SMSStatus:   model.StatusOK,
		PPSStatus:   model.StatusOK,
	}
	assert.Equal(t, 100, ScoreComponent(c))
}

func TestScoreComponentPartialWeights(t *testing.T) {
	tests := []struct {
		name string
		c    model.Component
		want int
	}{
		{
			name: "description only",
			c:    model.Component{Description: "something"},
			want: 20,
		},
		{
			name: "one picture scores half",
			c:    model.Component{Pictures: []model.Picture{{}}},
			want: 10,
		},
		{
			name: "three pictures across variants score full",
			c: model.Component{
				Pictures: []model.Picture{{}},
				Variants: []model.Variant{{Pictures: []model.Picture{{}, {}}}},
			},
			want: 20 + 15, // pictures full + variant present
		},
		{
			name: "one keyword scores partial",
			c:    model.Component{Keywords: []model.Keyword{{Name: "zip"}}},
			want: 7,
		},
		{
			name: "proto approval only",
			c:    model.Component{ProtoStatus: model.StatusOK},
			want: 4,
		},
		{
			name: "sms approval outranks proto",
			c:    model.Component{ProtoStatus: model.StatusOK, SMSStatus: model.StatusOK},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreComponent(&tt.c))
		})
	}
}

func TestBucket(t *testing.T) {
	assert.Equal(t, BucketPoor, Bucket(0))
	assert.Equal(t, BucketPoor, Bucket(39))
	assert.Equal(t, BucketFair, Bucket(40))
	assert.Equal(t, BucketFair, Bucket(69))
	assert.Equal(t, BucketGood, Bucket(70))
	assert.Equal(t, BucketGood, Bucket(89))
	assert.Equal(t, BucketExcellent, Bucket(90))
	assert.Equal(t, BucketExcellent, Bucket(100))
}
