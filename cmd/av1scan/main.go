/*
DESCRIPTION
  av1scan is a command-line front-end that parses an MP4 or IVF file down
  to its AV1 uncompressed frame headers, printing a summary per frame.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the av1scan CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/av1scan/av1"
	"github.com/ausocean/av1scan/errs"
	"github.com/ausocean/av1scan/ivf"
	"github.com/ausocean/av1scan/mp4"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration, mirroring cmd/rv's lumberjack setup.
const (
	logPath      = "av1scan.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

func main() {
	showVersion := flag.Bool("v", false, "show version")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: av1scan <file.mp4|file.ivf>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(os.Stderr, fileLog), logSuppress)

	if err := run(path, log); err != nil {
		log.Error("av1scan: run failed", "error", err)
		os.Exit(1)
	}
}

// run dispatches on path's extension, extracts the AV1 sample stream, and
// reports the uncompressed header of every frame in it.
func run(path string, log logging.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var samples [][]byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp4":
		f, err := mp4.Parse(data, log)
		if err != nil {
			return err
		}
		samples, err = f.Av1Samples()
		if err != nil {
			return err
		}
	case ".ivf":
		f, err := ivf.Parse(data, log)
		if err != nil {
			return err
		}
		for _, fr := range f.Frames {
			samples = append(samples, fr.Data)
		}
	default:
		return errs.New(errs.UnsupportedExtension, "av1scan", 0, nil, "unsupported file extension %q", ext)
	}

	dec := av1.NewDecoder()
	for i, sample := range samples {
		if err := dec.ParseFrame(sample, log); err != nil {
			log.Error("av1scan: failed parsing frame", "frame", i, "error", err)
			return err
		}
		log.Info("av1scan: parsed frame",
			"frame", i,
			"frameType", dec.LastFrame.FrameType,
			"width", dec.LastFrame.FrameWidth,
			"height", dec.LastFrame.FrameHeight,
			"tileCols", dec.LastFrame.TileCols,
			"tileRows", dec.LastFrame.TileRows,
			"baseQIdx", dec.LastFrame.QuantizationParams.BaseQIdx,
			"txMode", dec.LastFrame.TxMode,
			"codedLossless", dec.LastFrame.CodedLossless,
			"reducedTxSet", dec.LastFrame.ReducedTxSet,
		)
	}
	fmt.Printf("parsed %d frames from %s\n", len(samples), path)
	return nil
}
