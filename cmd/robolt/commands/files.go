package commands

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// NewFilesCommand creates the files command group
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file"},
		Short:   "Manage stored files",
		Long:    "Upload, download, clone and delete files stored by robogo",
	}

	cmd.AddCommand(newFilesUploadCommand())
	cmd.AddCommand(newFilesDownloadCommand("download", "Download a file", false))
	cmd.AddCommand(newFilesDownloadCommand("thumbnail", "Download the thumbnail of an image", true))
	cmd.AddCommand(newFilesCloneCommand())
	cmd.AddCommand(newFilesDeleteCommand())
	cmd.AddCommand(newFilesURLsCommand())

	return cmd
}

func newFilesUploadCommand() *cobra.Command {
	var (
		name     string
		mimeType string
	)

	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Upload a file",
		Long:  "Upload a local file and print the stored file record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			info, err := appFs.Stat(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			if !info.Mode().IsRegular() {
				return fmt.Errorf("%w: %s", constants.ErrNotRegularFile, path)
			}

			file, err := appFs.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer func() { _ = file.Close() }()

			if name == "" {
				name = filepath.Base(path)
			}

			if mimeType == "" {
				mimeType = mime.TypeByExtension(filepath.Ext(path))
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			stored, err := client.UploadFile(cmd.Context(), &robolt.Upload{
				Name:     name,
				MimeType: mimeType,
				Content:  file,
			}, progressPrinter(cmd.ErrOrStderr(), "Uploading"))
			if err != nil {
				return err
			}

			return renderRoboFile(cmd, stored)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "stored file name (default is the base name of PATH)")
	cmd.Flags().StringVar(&mimeType, "type", "", "MIME type (default is derived from the extension)")

	return cmd
}

func newFilesDownloadCommand(use, short string, thumbnail bool) *cobra.Command {
	var (
		out string
		raw bool
	)

	cmd := &cobra.Command{
		Use:   use + " KEY",
		Short: short,
		Long:  short + " by its storage key. Writes to --out, or to a file named KEY in the current directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			fetch := client.GetFile
			if thumbnail {
				fetch = client.GetThumbnail
			}

			ref := robolt.FileKey(args[0])

			file, err := fetch(cmd.Context(), ref, progressPrinter(cmd.ErrOrStderr(), "Downloading"))
			if err != nil {
				return err
			}

			if raw {
				_, err = cmd.OutOrStdout().Write(file.Data)

				return err
			}

			target := out
			if target == "" {
				target = args[0]
			}

			err = afero.WriteFile(appFs, target, file.Data, constants.ConfigFilePerm)
			if err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", target, file.MimeType, len(file.Data))

			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().BoolVar(&raw, "raw", false, "write the file content to stdout")

	return cmd
}

func newFilesCloneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clone ID",
		Short: "Clone a file",
		Long:  "Create a copy of a stored file and print the new file record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			clone, err := client.CloneFile(cmd.Context(), robolt.FileKey(args[0]))
			if err != nil {
				return err
			}

			return renderRoboFile(cmd, clone)
		},
	}
}

func newFilesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a file",
		Long:  "Delete a stored file and its thumbnail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.DeleteFile(cmd.Context(), robolt.FileKey(args[0]))
			if err != nil {
				return err
			}

			return renderProperties(cmd, result)
		},
	}
}

func newFilesURLsCommand() *cobra.Command {
	var thumbnailPath string

	cmd := &cobra.Command{
		Use:   "urls KEY",
		Short: "Show the public URLs of a file",
		Long:  "Show the absolute and relative URLs a file and its thumbnail are served under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			urls := client.GetFileURLs(&robolt.RoboFile{Path: args[0], ThumbnailPath: thumbnailPath})

			return renderOutput(cmd, urls, func(table *tablewriter.Table) error {
				table.Header("Kind", "Absolute", "Relative")
				_ = table.Append("file", urls.AbsolutePath, urls.RelativePath)

				if urls.AbsoluteThumbnailPath != "" {
					_ = table.Append("thumbnail", urls.AbsoluteThumbnailPath, urls.RelativeThumbnailPath)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&thumbnailPath, "thumbnail", "", "storage key of the thumbnail")

	return cmd
}

func renderRoboFile(cmd *cobra.Command, file *robolt.RoboFile) error {
	return renderOutput(cmd, file, func(table *tablewriter.Table) error {
		table.Header("Property", "Value")
		_ = table.Append("ID", file.ID)
		_ = table.Append("Name", file.Name)
		_ = table.Append("Path", file.Path)
		_ = table.Append("Type", file.MimeType)
		_ = table.Append("Size", fmt.Sprintf("%d", file.Size))

		if file.ThumbnailPath != "" {
			_ = table.Append("Thumbnail", file.ThumbnailPath)
		}

		return nil
	})
}

// progressPrinter reports transfer progress on w with --verbose.
func progressPrinter(w io.Writer, label string) robolt.ProgressFunc {
	if !viper.GetBool("verbose") {
		return nil
	}

	return func(percent int, event robolt.ProgressEvent) {
		if percent == constants.UnknownPercent {
			_, _ = fmt.Fprintf(w, "\r%s: %d bytes", label, event.Loaded)

			return
		}

		_, _ = fmt.Fprintf(w, "\r%s: %3d%%", label, percent)

		if percent == constants.PercentMultiplier {
			_, _ = fmt.Fprintln(w)
		}
	}
}

