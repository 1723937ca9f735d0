// Package room runs a complete impulse response measurement: it generates
// the sweep, hands the playback signal to a Recorder, aligns and deconvolves
// the recording and analyzes the resulting response.
//
// Only alignment and deconvolution failures abort a measurement. Every
// analyzer runs independently on the finished response; a metric that cannot
// be computed is reported as unavailable together with a diagnostic event.
//
// # Usage
//
//	m := room.New(cfg, room.WithLogger(slog.Default()))
//	res, err := m.Run(ctx, recorder)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("RT60:", res.Analysis.RT60)
package room
