package media_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/htmldom"
	"github.com/itnihongo/kaiwa/internal/media"
	mock_media "github.com/itnihongo/kaiwa/internal/mocks/media"
)

func TestResolve_ProbesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_media.NewMockResourceProbe(ctrl)

	ctx := context.Background()
	gomock.InOrder(
		probe.EXPECT().Exists(ctx, "A").Return(false),
		probe.EXPECT().Exists(ctx, "B").Return(false),
		probe.EXPECT().Exists(ctx, "C").Return(true),
	)

	got, err := media.Resolve(ctx, probe, []string{"A", "B", "C", "D"})
	require.NoError(t, err)
	assert.Equal(t, "C", got)
}

func TestResolve_NoVideo(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_media.NewMockResourceProbe(ctrl)
	probe.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false).Times(2)

	_, err := media.Resolve(context.Background(), probe, []string{"A", "B"})
	assert.ErrorIs(t, err, media.ErrNoVideo)
}

func TestResolve_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_media.NewMockResourceProbe(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := media.Resolve(ctx, probe, []string{"A"})
	assert.ErrorIs(t, err, context.Canceled)
}

const lessonSource = "# Bài 1\n\n**BrSE:** おはようございます\n*Chào buổi sáng*\n**KH:** はい\n\nHết."

func renderLesson(t *testing.T) string {
	t.Helper()
	return dialogue.Preprocess(lessonSource)
}

func TestAttach(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_media.NewMockResourceProbe(ctrl)
	viewport := mock_media.NewMockViewport(ctrl)

	gomock.InOrder(
		probe.EXPECT().Exists(gomock.Any(), "video/project1/lesson-01.mp4").Return(false),
		probe.EXPECT().Exists(gomock.Any(), "video/lesson-01.mp4").Return(true),
	)

	root, err := htmldom.ParseFragment(renderLesson(t))
	require.NoError(t, err)

	binding := media.Attach(context.Background(), root, "data/project1/lesson-01.md", media.AttachOptions{
		Probe:        probe,
		Player:       media.NewSimulatedPlayer(0),
		Viewport:     viewport,
		Tolerances:   media.DefaultTolerances(),
		Times:        []media.Timestamp{{Seconds: 1, Set: true}, {Seconds: 4, Set: true}},
		PublicPrefix: "/content/",
	})
	require.NotNil(t, binding)
	assert.Equal(t, "video/lesson-01.mp4", binding.Video)
	require.NotNil(t, binding.Layout)
	require.NotNil(t, binding.Layout.Legend)

	video := htmldom.First(binding.Layout.Figure, htmldom.ByTag("video"))
	src, _ := htmldom.Attr(video, "src")
	assert.Equal(t, "/content/video/lesson-01.mp4", src)

	require.Len(t, binding.Rows(), 2)
	assert.Equal(t, 4.0, binding.Rows()[1].Time)

	viewport.EXPECT().EnsureVisible(gomock.Any()).Do(func(row media.TranscriptRow) {
		assert.Equal(t, 1, row.Index)
	})
	require.True(t, binding.Click(1))

	_, bounded := binding.SegmentEnd(1)
	assert.False(t, bounded)

	active := htmldom.FindAll(root, htmldom.ByClass(media.ClassActive))
	var rows int
	for _, n := range active {
		if htmldom.HasClass(n, dialogue.ClassRow) {
			rows++
		}
	}
	assert.Equal(t, 1, rows)
}

func TestAttach_NoVideoLeavesDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_media.NewMockResourceProbe(ctrl)
	probe.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false).AnyTimes()

	root, err := htmldom.ParseFragment(renderLesson(t))
	require.NoError(t, err)
	before, err := htmldom.InnerHTML(root)
	require.NoError(t, err)

	binding := media.Attach(context.Background(), root, "lessons/intro.md", media.AttachOptions{
		Probe:      probe,
		Tolerances: media.DefaultTolerances(),
		Times:      []media.Timestamp{{Seconds: 1, Set: true}},
	})
	assert.Nil(t, binding)

	after, err := htmldom.InnerHTML(root)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAttach_NoDialogPlacesVideoFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_media.NewMockResourceProbe(ctrl)
	probe.EXPECT().Exists(gomock.Any(), "video/intro.mp4").Return(true)

	root, err := htmldom.ParseFragment("<h1>Intro</h1><p>no dialogue</p>")
	require.NoError(t, err)

	binding := media.Attach(context.Background(), root, "lessons/intro.md", media.AttachOptions{Probe: probe})
	require.NotNil(t, binding)
	assert.Nil(t, binding.Layout)
	assert.False(t, binding.HasTimedRows())
	assert.True(t, htmldom.HasClass(root.FirstChild, media.ClassFigure))
}

func TestAttach_NoProbe(t *testing.T) {
	root, err := htmldom.ParseFragment("<p>x</p>")
	require.NoError(t, err)
	assert.Nil(t, media.Attach(context.Background(), root, "a.md", media.AttachOptions{}))
}

func TestBinding_PlayRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := mock_media.NewMockPlayer(ctrl)

	root, err := htmldom.ParseFragment(`<div class="dialog-row" data-time="2"></div><div class="dialog-row" data-time="6"></div>`)
	require.NoError(t, err)
	binding := media.NewBinding(root, player, media.DefaultTolerances())

	gomock.InOrder(
		player.EXPECT().Seek(2.0),
		player.EXPECT().Play().Return(errors.New("autoplay blocked")),
	)
	require.True(t, binding.Click(0))
	assert.Equal(t, 0, binding.Active())

	end, ok := binding.Segment()
	require.True(t, ok)
	assert.InDelta(t, 5.65, end, 1e-9)
}

func TestTimeline(t *testing.T) {
	root, err := htmldom.ParseFragment(strings.Join([]string{
		`<div class="dialog-row" data-time="0"><div class="jp"> A </div></div>`,
		`<div class="dialog-row" data-time="5"><div class="vn">B</div></div>`,
		`<div class="dialog-row" data-time="12"><div class="jp">C</div></div>`,
	}, ""))
	require.NoError(t, err)
	binding := media.NewBinding(root, media.NewSimulatedPlayer(0), media.DefaultTolerances())

	cues := binding.Timeline()
	require.Len(t, cues, 3)
	assert.Equal(t, "A", cues[0].Text)
	assert.Equal(t, "B", cues[1].Text)
	assert.InDelta(t, 11.65, cues[1].End, 1e-9)
	assert.True(t, cues[1].Bounded)
	assert.False(t, cues[2].Bounded)
	assert.NoError(t, binding.ValidateTimeline())
}

func TestValidateTimeline_OutOfOrder(t *testing.T) {
	root, err := htmldom.ParseFragment(`<div class="dialog-row" data-time="5"></div><div class="dialog-row" data-time="3"></div>`)
	require.NoError(t, err)
	binding := media.NewBinding(root, media.NewSimulatedPlayer(0), media.DefaultTolerances())

	assert.ErrorIs(t, binding.ValidateTimeline(), media.ErrTimelineOrder)
}
