// Command happy-audio speeds up and pitch-shifts a local file or a YouTube
// video.
//
//	happy-audio -f song.mp3
//	happy-audio -y https://youtu.be/dQw4w9WgXcQ -v -s 1.5 -p 3
//
// Subcommands manage the download cache (cache list|stats|prune|clear), the
// configuration file (config init|validate), and check the installation
// (doctor).
package main
