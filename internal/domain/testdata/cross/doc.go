package cross
