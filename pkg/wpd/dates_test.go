//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package wpd_test

import (
	"testing"
	"time"

	"github.com/joe/mtp-copy/pkg/wpd"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"2021/03/04:05:06:07.089",
		"1999/12/31:23:59:59.999",
		"2024/02/29:00:00:00.000",
	} {
		s := s
		t.Run(s, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			parsed, err := wpd.ParseDate(s)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(wpd.FormatDate(parsed)).To(Equal(s))
		})
	}
}

func TestParseDateWithoutFraction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	parsed, err := wpd.ParseDate("2021/03/04:05:06:07")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(parsed).To(Equal(time.Date(2021, 3, 4, 5, 6, 7, 0, time.Local)))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	for _, s := range []string{"", "2021-03-04T05:06:07", "2021/13/04:05:06:07.000"} {
		_, err := wpd.ParseDate(s)
		g.Expect(err).To(HaveOccurred(), s)
	}
}

func TestFormatDateTruncatesToMilliseconds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tm := time.Date(2020, 1, 2, 3, 4, 5, 678_999_999, time.Local)
	g.Expect(wpd.FormatDate(tm)).To(Equal("2020/01/02:03:04:05.678"))
	g.Expect(wpd.FormatOptionalDate(nil)).To(BeEmpty())
}
