package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/logging"
)

var brightest = color.RGBA{0, 55, 255, 255}

func nonzeroCells(r *Result) int {
	n := 0
	for _, c := range r.Grid.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}

var _ = Describe("Run", func() {
	ctx := context.Background()

	Context("with the canonical butterfly parameters", func() {
		var (
			params config.Params
			result *Result
		)

		BeforeEach(func() {
			params = config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 10000, ResultSize: 64}
			var err error
			result, err = Run(ctx, params)
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces a 64x64 image", func() {
			b := result.Image.Bounds()
			Expect(b.Dx()).To(Equal(64))
			Expect(b.Dy()).To(Equal(64))
		})

		It("counts every visit exactly once", func() {
			Expect(result.Grid.Total()).To(Equal(10000))
		})

		It("spreads the trajectory over many cells", func() {
			Expect(result.Grid.Visited()).To(BeNumerically(">", 200))
		})

		It("reaches the brightest blue tier at the densest cell", func() {
			found := false
			for y := 0; y < 64 && !found; y++ {
				for x := 0; x < 64; x++ {
					if result.Grid.At(x, y) == result.Grid.Max {
						Expect(result.Image.RGBAAt(x, y)).To(Equal(brightest))
						found = true
						break
					}
				}
			}
			Expect(found).To(BeTrue())
		})

		It("paints unvisited cells black and visited cells non-black", func() {
			for y := 0; y < 64; y++ {
				for x := 0; x < 64; x++ {
					px := result.Image.RGBAAt(x, y)
					if result.Grid.At(x, y) == 0 {
						Expect(px).To(Equal(color.RGBA{0, 0, 0, 255}))
					} else {
						Expect(px.B).To(BeNumerically(">=", 55))
						Expect(px.G).To(BeNumerically(">=", 55))
					}
				}
			}
		})

		It("is deterministic", func() {
			again, err := Run(ctx, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(bytes.Equal(again.Image.Pix, result.Image.Pix)).To(BeTrue())
			Expect(again.Bounds).To(Equal(result.Bounds))
		})
	})

	It("places a single point in the centre cell", func() {
		result, err := Run(ctx, config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 1, ResultSize: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(nonzeroCells(result)).To(Equal(1))
		Expect(result.Grid.At(4, 4)).To(Equal(1))
		Expect(result.Image.RGBAAt(4, 4)).To(Equal(brightest))
	})

	It("collapses everything into a 1x1 image", func() {
		result, err := Run(ctx, config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 777, ResultSize: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Image.Bounds().Dx()).To(Equal(1))
		Expect(result.Grid.At(0, 0)).To(Equal(777))
		Expect(result.Image.RGBAAt(0, 0)).To(Equal(brightest))
	})

	DescribeTable("visit totals equal the iteration count",
		func(p config.Params) {
			result, err := Run(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Grid.Total()).To(Equal(p.Iterations))
			Expect(result.Grid.Max).To(BeNumerically(">=", 1))
		},
		Entry("one point", config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 1, ResultSize: 5}),
		Entry("two points", config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 2, ResultSize: 5}),
		Entry("zero dt", config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0, Iterations: 50, ResultSize: 8}),
		Entry("low rho", config.Params{Sigma: 10, Rho: 14, Beta: 8.0 / 3.0, Dt: 0.01, Iterations: 3000, ResultSize: 32}),
		Entry("odd size", config.Params{Sigma: 10, Rho: 28, Beta: 8.0 / 3.0, Dt: 0.005, Iterations: 4321, ResultSize: 37}),
	)

	Describe("failures", func() {
		It("reports a diverging trajectory from the accumulate stage", func() {
			_, err := Run(ctx, config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 1, Iterations: 1000, ResultSize: 16})
			Expect(err).To(MatchError(dynamo.ErrCellOutOfRange))

			var se *dynamo.StageError
			Expect(err).To(BeAssignableToTypeOf(se))
			Expect(err.(*dynamo.StageError).Stage).To(Equal(dynamo.StageAccumulate))
		})

		It("rejects invalid parameters", func() {
			_, err := Run(ctx, config.Params{Iterations: 0, ResultSize: 4})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			var se *dynamo.StageError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Stage).To(Equal(dynamo.StageLoadConfig))
		})

		It("stops when the context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Run(cctx, config.DefaultParams())
			Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		})
	})

	It("logs a diverging trajectory before failing", func() {
		var buf bytes.Buffer
		_, err := Run(ctx, config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 1, Iterations: 1000, ResultSize: 16},
			WithLogger(logging.NewLogger("debug", &buf)))
		Expect(err).To(MatchError(dynamo.ErrCellOutOfRange))
		Expect(buf.String()).To(ContainSubstring("trajectory diverged"))
	})

	It("logs stage progress at debug level", func() {
		var buf bytes.Buffer
		_, err := Run(ctx, config.Params{Sigma: 10, Rho: 28, Beta: 2.667, Dt: 0.01, Iterations: 100, ResultSize: 8},
			WithLogger(logging.NewLogger("debug", &buf)))
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("trajectory integrated"))
		Expect(buf.String()).To(ContainSubstring("image rendered"))
	})
})
