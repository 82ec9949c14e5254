package gemini_test

import (
	"context"
	"testing"

	"github.com/hrforge/talentd/internal/ai/gemini"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseClassification(t *testing.T) {
	Convey("Given model replies in the shapes Gemini actually produces", t, func() {
		Convey("When the reply is plain JSON", func() {
			result, err := gemini.ParseClassification(`{"label": "positive", "confidence": 0.92}`)

			Convey("Then the pair should parse directly", func() {
				So(err, ShouldBeNil)
				So(result.Label, ShouldEqual, "positive")
				So(result.Confidence, ShouldAlmostEqual, 0.92, 0.0001)
			})
		})

		Convey("When the reply is wrapped in a json code fence", func() {
			raw := "```json\n{\"label\": \"negative\", \"confidence\": 0.8}\n```"
			result, err := gemini.ParseClassification(raw)

			Convey("Then the fence should be stripped", func() {
				So(err, ShouldBeNil)
				So(result.Label, ShouldEqual, "negative")
				So(result.Confidence, ShouldAlmostEqual, 0.8, 0.0001)
			})
		})

		Convey("When the reply is wrapped in a bare code fence", func() {
			raw := "```\n{\"label\": \"neutral\", \"confidence\": 0.5}\n```"
			result, err := gemini.ParseClassification(raw)

			Convey("Then the fence should still be stripped", func() {
				So(err, ShouldBeNil)
				So(result.Label, ShouldEqual, "neutral")
			})
		})

		Convey("When the model uses the sentiment key instead of label", func() {
			result, err := gemini.ParseClassification(`{"sentiment": "Positive", "confidence": 0.7}`)

			Convey("Then the fallback key should apply and the label lowercase", func() {
				So(err, ShouldBeNil)
				So(result.Label, ShouldEqual, "positive")
			})
		})

		Convey("When the confidence arrives as a string", func() {
			result, err := gemini.ParseClassification(`{"label": "negative", "confidence": "0.65"}`)

			Convey("Then it should be coerced", func() {
				So(err, ShouldBeNil)
				So(result.Confidence, ShouldAlmostEqual, 0.65, 0.0001)
			})
		})

		Convey("When the confidence is out of range", func() {
			high, errHigh := gemini.ParseClassification(`{"label": "positive", "confidence": 1.4}`)
			low, errLow := gemini.ParseClassification(`{"label": "positive", "confidence": -0.2}`)

			Convey("Then it should clamp to [0,1]", func() {
				So(errHigh, ShouldBeNil)
				So(high.Confidence, ShouldAlmostEqual, 1.0, 0.0001)
				So(errLow, ShouldBeNil)
				So(low.Confidence, ShouldAlmostEqual, 0.0, 0.0001)
			})
		})

		Convey("When the confidence is missing", func() {
			result, err := gemini.ParseClassification(`{"label": "neutral"}`)

			Convey("Then it should default to zero", func() {
				So(err, ShouldBeNil)
				So(result.Confidence, ShouldEqual, 0)
			})
		})

		Convey("When the reply has no usable label", func() {
			_, errMissing := gemini.ParseClassification(`{"confidence": 0.9}`)
			_, errTyped := gemini.ParseClassification(`{"label": 3, "confidence": 0.9}`)

			Convey("Then parsing should fail", func() {
				So(errMissing, ShouldNotBeNil)
				So(errTyped, ShouldNotBeNil)
			})
		})

		Convey("When the reply is not JSON at all", func() {
			_, err := gemini.ParseClassification("the sentiment is positive")

			Convey("Then parsing should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestClientConstruction(t *testing.T) {
	Convey("Given client construction inputs", t, func() {
		ctx := context.Background()

		Convey("When the API key is blank", func() {
			client, err := gemini.New(ctx, "   ", "")

			Convey("Then construction should fail", func() {
				So(err, ShouldNotBeNil)
				So(client, ShouldBeNil)
			})
		})

		Convey("When the client is nil", func() {
			var client *gemini.Client

			Convey("Then Model should degrade to empty", func() {
				So(client.Model(), ShouldBeBlank)
			})

			Convey("Then GenerateText should report the capability unavailable", func() {
				_, err := client.GenerateText(ctx, "hello")
				So(err, ShouldNotBeNil)
			})
		})
	})
}
