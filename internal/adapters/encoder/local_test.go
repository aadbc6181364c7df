package encoder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/placewise/matchcore/internal/adapters/encoder"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalEncode(t *testing.T) {
	Convey("Given the local backend", t, func() {
		ctx := context.Background()
		local := encoder.NewLocal(16)

		Convey("When encoding the same text twice", func() {
			first, err1 := local.Encode(ctx, "python sql react")
			second, err2 := local.Encode(ctx, "python sql react")

			Convey("Then the embedding is deterministic", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
				So(first, ShouldHaveLength, local.Dimension())
			})
		})

		Convey("When encoding different texts", func() {
			a, _ := local.Encode(ctx, "python sql")
			b, _ := local.Encode(ctx, "java spring")

			Convey("Then the embeddings differ", func() {
				So(a, ShouldNotResemble, b)
			})
		})

		Convey("When encoding blank text", func() {
			_, err := local.Encode(ctx, "   ")
			So(errors.Is(err, encoder.ErrEmptyText), ShouldBeTrue)
		})
	})
}

func TestLocalScore(t *testing.T) {
	Convey("Given the local pair scorer", t, func() {
		ctx := context.Background()
		local := encoder.NewLocal(16)

		Convey("Identical texts score the full 10", func() {
			score, err := local.Score(ctx, "python sql react", "python sql react")
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 10)
		})

		Convey("Partial token overlap scores proportionally", func() {
			score, err := local.Score(ctx, "python sql react", "python java")
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 2.5)
		})

		Convey("Disjoint texts score 0", func() {
			score, err := local.Score(ctx, "python", "haskell")
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0)
		})

		Convey("Comparison ignores case and trailing punctuation", func() {
			score, err := local.Score(ctx, "Python, SQL.", "python sql")
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 10)
		})

		Convey("Blank input is an error", func() {
			_, err := local.Score(ctx, "", "python")
			So(errors.Is(err, encoder.ErrEmptyText), ShouldBeTrue)
		})
	})
}

func TestCache(t *testing.T) {
	Convey("Given an embedding cache of size 2", t, func() {
		cache := encoder.NewCache(2)

		Convey("When storing and reading a vector", func() {
			cache.Set("k1", []float32{1, 2})
			vec, ok := cache.Get("k1")

			So(ok, ShouldBeTrue)
			So(vec, ShouldResemble, []float32{1, 2})

			Convey("Then mutating the returned copy leaves the cache intact", func() {
				vec[0] = 99
				fresh, _ := cache.Get("k1")
				So(fresh[0], ShouldEqual, float32(1))
			})
		})

		Convey("When exceeding capacity", func() {
			cache.Set("k1", []float32{1})
			cache.Set("k2", []float32{2})
			cache.Set("k3", []float32{3})

			Convey("Then the least recently used entry is evicted", func() {
				So(cache.Len(), ShouldEqual, 2)
				_, ok := cache.Get("k1")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("A miss reports not found", func() {
			_, ok := cache.Get("absent")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFactory(t *testing.T) {
	Convey("Given the backend factory", t, func() {
		ctx := context.Background()

		Convey("An empty provider falls back to the local backend", func() {
			backend, err := encoder.New(ctx, encoder.Config{})
			So(err, ShouldBeNil)
			So(backend, ShouldNotBeNil)

			vec, err := backend.Encode(ctx, "python")
			So(err, ShouldBeNil)
			So(vec, ShouldHaveLength, backend.Dimension())
		})

		Convey("The local provider is selected case-insensitively", func() {
			backend, err := encoder.New(ctx, encoder.Config{Provider: " Local "})
			So(err, ShouldBeNil)
			So(backend, ShouldNotBeNil)
		})

		Convey("The gemini provider without a key is refused", func() {
			_, err := encoder.New(ctx, encoder.Config{Provider: "gemini"})
			So(errors.Is(err, encoder.ErrMissingAPIKey), ShouldBeTrue)
		})

		Convey("An unknown provider is refused", func() {
			_, err := encoder.New(ctx, encoder.Config{Provider: "openai"})
			So(errors.Is(err, encoder.ErrUnknownProvider), ShouldBeTrue)
		})
	})
}
