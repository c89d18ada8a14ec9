package catalog

const (
	// ToughCanvasCatalogName identifies the canvas suite in reports and archive lookups
	ToughCanvasCatalogName = "tough_canvas_cases"
	// ToughCanvasDescription is the suite's one-line description
	ToughCanvasDescription = "Self-driven Canvas2D animation examples"
	// ToughCanvasArchiveDataFile is the recorded-page archive, relative to the page set directory
	ToughCanvasArchiveDataFile = "../data/tough_canvas_cases.json"
	// PartnerBucket is the cloud storage bucket holding partner page recordings
	PartnerBucket = "partner-benchmark-data"

	// MicrosoftFirefliesName is the disabled page, kept for re-recording.
	MicrosoftFirefliesName           = "microsoft_fireflies"
	microsoftFirefliesDisabledReason = "crashes on Galaxy Nexus (crbug.com/314131); needs re-recording"
)

// MicrosoftFireflies returns the fireflies page. It is part of the table but
// not of the active catalog.
func MicrosoftFireflies() PageDescriptor {
	return disabledPage(
		MicrosoftFirefliesName,
		"http://ie.microsoft.com/testdrive/Performance/Fireflies/Default.html",
		microsoftFirefliesDisabledReason,
	)
}

// ToughCanvasPages returns a fresh copy of the full page table in execution order,
// disabled entries included.
func ToughCanvasPages() []PageDescriptor {
	return []PageDescriptor{
		MicrosoftFireflies(),

		// Remote demos
		page("geo_apis", "http://geoapis.appspot.com/agdnZW9hcGlzchMLEgtFeGFtcGxlQ29kZRjh1wIM"),
		page("runway", "http://runway.countlessprojects.com/prototype/performance_test.html"),
		page("microsoft_fish_ie_tank", "http://ie.microsoft.com/testdrive/Performance/FishIETank/Default.html"),
		page("microsoft_speed_reading", "http://ie.microsoft.com/testdrive/Performance/SpeedReading/Default.html"),
		page("kevs_3d", "http://www.kevs3d.co.uk/dev/canvask3d/k3d_test.html"),
		page("megi_dish", "http://www.megidish.net/awjs/"),
		page("man_in_blue", "http://themaninblue.com/experiment/AnimationBenchmark/canvas/"),
		page("mix_10k", "http://mix10k.visitmix.com/Entry/Details/169"),
		page("crafty_mind", "http://www.craftymind.com/factory/guimark2/HTML5ChartingTest.html"),
		page("chip_tune", "http://www.chiptune.com/starfield/starfield.html"),
		page("jarro_doverson", "http://jarrodoverson.com/static/demos/particleSystem/"),
		page("effect_games", "http://www.effectgames.com/demos/canvascycle/"),
		page("spielzeugz", "http://spielzeugz.de/html5/liquid-particles.html"),
		page("hakim", "http://hakim.se/experiments/html5/magnetic/02/"),
		page("microsoft_snow", "http://ie.microsoft.com/testdrive/Performance/LetItSnow/"),
		page("microsoft_worker_fountains", "http://ie.microsoft.com/testdrive/Graphics/WorkerFountains/Default.html"),
		page("microsoft_tweet_map", "http://ie.microsoft.com/testdrive/Graphics/TweetMap/Default.html"),
		page("microsoft_video_city", "http://ie.microsoft.com/testdrive/Graphics/VideoCity/Default.html"),
		page("microsoft_asteroid_belt", "http://ie.microsoft.com/testdrive/Performance/AsteroidBelt/Default.html"),
		page("smash_cat", "http://www.smashcat.org/av/canvas_test/"),

		// Local fixtures
		page("bouncing_balls_shadow", "file://../tough_canvas_cases/canvas2d_balls_common/bouncing_balls.html?ball=image_with_shadow&back=image"),
		page("bouncing_balls_15", "file://../tough_canvas_cases/canvas2d_balls_common/bouncing_balls.html?ball=text&back=white&ball_count=15"),
		page("canvas_font_cycler", "file://../tough_canvas_cases/canvas-font-cycler.html"),
		page("canvas_animation_no_clear", "file://../tough_canvas_cases/canvas-animation-no-clear.html"),
		page("canvas_to_blob", "file://../tough_canvas_cases/canvas_toBlob.html"),
		page("many_images", "file://../../../../chrome/test/data/perf/canvas_bench/many_images.html"),
		page("canvas_arcs", "file://../tough_canvas_cases/rendering_throughput/canvas_arcs.html"),
		page("canvas_lines", "file://../tough_canvas_cases/rendering_throughput/canvas_lines.html"),
		page("put_get_image_data", "file://../tough_canvas_cases/rendering_throughput/put_get_image_data.html"),
		page("fill_shapes", "file://../tough_canvas_cases/rendering_throughput/fill_shapes.html"),
		page("stroke_shapes", "file://../tough_canvas_cases/rendering_throughput/stroke_shapes.html"),
		page("bouncing_clipped_rectangles", "file://../tough_canvas_cases/rendering_throughput/bouncing_clipped_rectangles.html"),
		page("bouncing_gradient_circles", "file://../tough_canvas_cases/rendering_throughput/bouncing_gradient_circles.html"),
		page("bouncing_svg_images", "file://../tough_canvas_cases/rendering_throughput/bouncing_svg_images.html"),
		page("bouncing_png_images", "file://../tough_canvas_cases/rendering_throughput/bouncing_png_images.html"),
	}
}

// ToughCanvasMetadata returns the suite-level metadata for the canvas catalog.
func ToughCanvasMetadata() Metadata {
	return Metadata{
		Name:        ToughCanvasCatalogName,
		Description: ToughCanvasDescription,
		Archive: ArchiveInfo{
			DataFile: ToughCanvasArchiveDataFile,
			Bucket:   PartnerBucket,
		},
	}
}
