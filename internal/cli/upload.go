package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// uploadOptions holds the upload form flags.
type uploadOptions struct {
	groupID         int
	category        int
	format          string
	bitrate         string
	media           string
	year            int
	title           string
	recordLabel     string
	catalogueNumber string
	description     string
}

// UploadCmd creates the upload command.
// The env parameter provides injectable dependencies for testing.
func UploadCmd(env *Env) *cobra.Command {
	var opts uploadOptions

	cmd := &cobra.Command{
		Use:   "upload <torrent-file>",
		Short: "Add a format to an existing release",
		Long: `Upload a .torrent file as a new format of an existing group.

Uploads are never retried, even with --retries: a failed response does not
prove the torrent was not created.`,
		Example: `  gazelle upload album.torrent --group 123 --format FLAC --bitrate Lossless --media CD
  gazelle upload album.torrent --group 123 --format MP3 --bitrate V0 --media WEB --year 2011 --title Deluxe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, env, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.groupID, "group", 0, "Group ID to add the torrent to (required)")
	f.IntVar(&opts.category, "type", 0, "Upload form category index (0 = Music)")
	f.StringVar(&opts.format, "format", "", "Format, e.g. FLAC, MP3 (required)")
	f.StringVar(&opts.bitrate, "bitrate", "", "Bitrate, e.g. Lossless, 24bit Lossless, 320, V0 (required)")
	f.StringVar(&opts.media, "media", "", "Media, e.g. CD, WEB, Vinyl (required)")
	f.IntVar(&opts.year, "year", 0, "Edition year")
	f.StringVar(&opts.title, "title", "", "Edition title")
	f.StringVar(&opts.recordLabel, "label", "", "Edition record label")
	f.StringVar(&opts.catalogueNumber, "catalogue", "", "Edition catalogue number")
	f.StringVar(&opts.description, "desc", "", "Release description")
	for _, name := range []string{"group", "format", "bitrate", "media"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// runUpload validates the torrent file and sends the form.
// Validation order: file exists -> extension -> group -> session
func runUpload(cmd *cobra.Command, env *Env, path string, opts uploadOptions) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".torrent" {
		return fmt.Errorf("%s: %w (got %q)", path, ErrNotTorrentFile, ext)
	}
	if opts.groupID <= 0 {
		return fmt.Errorf("--group %d: %w", opts.groupID, ErrInvalidID)
	}

	s, err := openSession(cmd, env)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.client.UploadTorrent(cmd.Context(), gazelle.UploadForm{
		Path:                    path,
		CategoryID:              opts.category,
		RemasterYear:            opts.year,
		RemasterTitle:           opts.title,
		RemasterRecordLabel:     opts.recordLabel,
		RemasterCatalogueNumber: opts.catalogueNumber,
		Format:                  opts.format,
		Bitrate:                 opts.bitrate,
		Media:                   opts.media,
		ReleaseDesc:             opts.description,
		GroupID:                 opts.groupID,
	})
	if err != nil {
		return err
	}

	if s.globals.json {
		return writeJSON(env.stdout(), resp)
	}
	groupID := resp.GroupID()
	if groupID == 0 {
		groupID = opts.groupID
	}
	fmt.Fprintf(env.stdout(), "Uploaded torrent %d to group %d\n", resp.TorrentID(), groupID)
	return nil
}
