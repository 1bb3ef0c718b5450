package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/krishkalaria12/imageworld/client"
	"github.com/spf13/cobra"
)

// prepare runs the client side upload filter with the caller's plan limit.
// If the plan cannot be fetched the free limit applies.
func (a *app) prepare(ctx context.Context, c *client.Client, path string, accepted []string) (*client.Upload, error) {
	isPro := false
	if me, err := c.Me(ctx); err == nil {
		isPro = me.IsPro
	}
	return client.PrepareUpload(path, accepted, isPro)
}

func (a *app) save(dl *client.Download, out, fallback string) error {
	name := out
	if name == "" {
		name = client.SafeFilename(dl.Filename)
	}
	if name == "" {
		name = fallback
	}
	if err := os.WriteFile(name, dl.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	a.printf("saved %s (%d bytes, %s)\n", name, len(dl.Data), dl.ContentType)
	return nil
}

func newResizeCommand(a *app) *cobra.Command {
	var opts client.ResizeOptions
	var out string

	cmd := &cobra.Command{
		Use:   "resize <image>",
		Short: "Resize an image to fit inside the given box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			up, err := a.prepare(cmd.Context(), c, args[0], nil)
			if err != nil {
				return err
			}
			dl, err := c.Resize(cmd.Context(), up, opts)
			if err != nil {
				return err
			}
			return a.save(dl, out, "resized-image.jpg")
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "maximum width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "maximum height in pixels")
	cmd.Flags().IntVar(&opts.Quality, "quality", 0, "JPEG quality 1-100")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func isHEIC(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".heic" || ext == ".heif"
}

func newConvertCommand(a *app) *cobra.Command {
	var format, out string
	var quality int

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image to jpeg, png or webp",
		Long:  "Convert an image to jpeg, png or webp. HEIC and HEIF photos are converted to JPG.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}

			path := args[0]
			accepted := client.DefaultAcceptedTypes
			if isHEIC(path) {
				accepted = client.HEICTypes
				format = "jpg"
				if out == "" {
					out = client.ReplaceExt(path, "jpg")
				}
			}

			up, err := a.prepare(cmd.Context(), c, path, accepted)
			if err != nil {
				return err
			}
			dl, err := c.Convert(cmd.Context(), up, format, quality)
			if err != nil {
				return err
			}
			return a.save(dl, out, "converted-image."+format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "jpeg", "target format: jpeg, jpg, png or webp")
	cmd.Flags().IntVar(&quality, "quality", 0, "quality 1-100 for jpeg and webp")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newCompressCommand(a *app) *cobra.Command {
	var out string
	var quality int

	cmd := &cobra.Command{
		Use:   "compress <image>",
		Short: "Re-encode an image at a lower quality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			up, err := a.prepare(cmd.Context(), c, args[0], nil)
			if err != nil {
				return err
			}
			dl, err := c.Compress(cmd.Context(), up, quality)
			if err != nil {
				return err
			}
			return a.save(dl, out, "compressed-image")
		},
	}

	cmd.Flags().IntVar(&quality, "quality", 0, "quality 1-100")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newPNGToSVGCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "png2svg <image.png>",
		Short: "Wrap a PNG in a scalable SVG document (runs locally)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			svg, err := client.PNGToSVG(data)
			if err != nil {
				return err
			}
			if out == "" {
				out = client.ReplaceExt(args[0], "svg")
			}
			return a.save(&client.Download{Data: svg, ContentType: "image/svg+xml", Filename: out}, "", out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
